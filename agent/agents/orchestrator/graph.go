package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/banking-tool-gateway/agent/nodes/orchestrator"
)

const (
	nodeValidateRequest  = "validate_request"
	nodeLoadHistory      = "load_history"
	nodeListTools        = "list_tools"
	nodeFirstCompletion  = "first_completion"
	nodeExecuteTools     = "execute_tools"
	nodeSecondCompletion = "second_completion"
	nodeSaveHistory      = "save_history"
	nodeFinalizeReply    = "finalize_reply"
)

func (o *Orchestrator) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode(nodeValidateRequest,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeValidateRequest, err)
	}

	if err := graph.AddLambdaNode(nodeLoadHistory,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadHistory(ctx, in, o.store, o.customerID, o.systemPrompt, o.historyLimit)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeLoadHistory, err)
	}

	if err := graph.AddLambdaNode(nodeListTools,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ListTools(ctx, in, o.tools, o.model)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeListTools, err)
	}

	if err := graph.AddLambdaNode(nodeFirstCompletion,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.FirstCompletion(ctx, in, o.llmTimeout)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeFirstCompletion, err)
	}

	if err := graph.AddLambdaNode(nodeExecuteTools,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecuteTools(ctx, in, o.tools, o.toolTimeout)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeExecuteTools, err)
	}

	if err := graph.AddLambdaNode(nodeSecondCompletion,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SecondCompletion(ctx, in, o.llmTimeout)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeSecondCompletion, err)
	}

	if err := graph.AddLambdaNode(nodeSaveHistory,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveHistory(ctx, in, o.store, o.historyLimit)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeSaveHistory, err)
	}

	if err := graph.AddLambdaNode(nodeFinalizeReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeFinalizeReply, err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in.HasToolCalls() {
				return nodeExecuteTools, nil
			}
			return nodeSaveHistory, nil
		},
		map[string]bool{
			nodeExecuteTools: true,
			nodeSaveHistory:  true,
		},
	)
	if err := graph.AddBranch(nodeFirstCompletion, branch); err != nil {
		return nil, fmt.Errorf("add branch %s: %w", nodeFirstCompletion, err)
	}

	edges := [][2]string{
		{compose.START, nodeValidateRequest},
		{nodeValidateRequest, nodeLoadHistory},
		{nodeLoadHistory, nodeListTools},
		{nodeListTools, nodeFirstCompletion},
		{nodeExecuteTools, nodeSecondCompletion},
		{nodeSecondCompletion, nodeSaveHistory},
		{nodeSaveHistory, nodeFinalizeReply},
		{nodeFinalizeReply, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
