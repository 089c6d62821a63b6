package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/triage/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_ReturnsCopies(t *testing.T) {
	src := map[string]string{"categorize": "Classify {{.Query}}"}
	loader := memory.NewLoader(src)
	src["categorize"] = "mutated"

	got, err := loader.LoadPrompts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Classify {{.Query}}", got["categorize"])

	got["categorize"] = "mutated again"
	again, _ := loader.LoadPrompts(context.Background())
	assert.Equal(t, "Classify {{.Query}}", again["categorize"])
}
