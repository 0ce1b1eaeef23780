package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

// Local is an in-process ToolGateway bound to one identity.
type Local struct {
	exec     Executor
	identity contractx.Identity
}

var _ contractx.ToolGateway = (*Local)(nil)

func NewLocal(exec Executor, identity contractx.Identity) *Local {
	return &Local{exec: exec, identity: identity}
}

func (l *Local) Tools(context.Context) ([]*schema.ToolInfo, error) {
	return Infos(), nil
}

func (l *Local) Execute(ctx context.Context, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		res := contractx.ToolResult{ID: req.ID, Tool: req.Tool}

		out, err := l.exec(ctx, l.identity, req.Tool, req.Args)
		if err != nil {
			err = Describe(err)
			log.Debug().Err(err).Str("tool", req.Tool).Msg("Local.Execute tool failed")
			res.Error = err.Error()
		} else {
			res.Result = out
		}
		results = append(results, res)
	}
	return results, nil
}

// Describe maps context deadlines to contract.ErrTimeout and leaves other
// errors unchanged.
func Describe(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, contractx.ErrTimeout) {
		return fmt.Errorf("%w: %v", contractx.ErrTimeout, err)
	}
	return err
}
