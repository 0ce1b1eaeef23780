package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return GraphOutput{Reply: in.Reply, ToolCalls: len(in.ToolResults)}, nil
}
