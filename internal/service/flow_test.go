package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

func newFlowService() *service.FlowService {
	return service.NewFlowService(store.New[*model.Flow](), logger.NewNop())
}

func sampleGraph() ([]model.FlowNode, []model.FlowEdge) {
	nodes := []model.FlowNode{
		{ID: "start", Kind: "trigger", Position: model.FlowPosition{X: 80, Y: 120}},
		{ID: "reply", Kind: "message", Position: model.FlowPosition{X: 320, Y: 120}, Data: map[string]string{"text": "hi"}},
	}
	edges := []model.FlowEdge{{ID: "e1", Source: "start", Target: "reply"}}
	return nodes, edges
}

func TestFlowCreateStartsInactive(t *testing.T) {
	ctx := context.Background()
	svc := newFlowService()
	nodes, edges := sampleGraph()

	created, err := svc.Create(ctx, &model.CreateFlowRequest{Name: "after-hours", Nodes: nodes, Edges: edges})
	require.NoError(t, err)
	assert.False(t, created.Active)
	assert.Len(t, created.Nodes, 2)

	activated, err := svc.SetActive(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, activated.Active)
}

func TestFlowUpdateReplacesGraphWholesale(t *testing.T) {
	ctx := context.Background()
	svc := newFlowService()
	nodes, edges := sampleGraph()

	created, err := svc.Create(ctx, &model.CreateFlowRequest{Name: "flow", Nodes: nodes, Edges: edges})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &model.UpdateFlowRequest{
		Nodes: []model.FlowNode{{ID: "only", Kind: "trigger"}},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Nodes, 1)
	assert.Len(t, updated.Edges, 1) // nil edges in the patch keeps the stored ones
}

func TestFlowDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newFlowService()
	nodes, edges := sampleGraph()

	created, err := svc.Create(ctx, &model.CreateFlowRequest{Name: "after-hours", Nodes: nodes, Edges: edges})
	require.NoError(t, err)
	_, err = svc.SetActive(ctx, created.ID, true)
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, created.ID, "")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, dup.ID)
	assert.Equal(t, "after-hours (copy)", dup.Name)
	assert.False(t, dup.Active)
	assert.Equal(t, created.Nodes, dup.Nodes)

	// Mutating the duplicate's graph must not touch the original.
	dup.Nodes[1].Data["text"] = "changed"
	original, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", original.Nodes[1].Data["text"])
}
