package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/triage/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func save(t *testing.T, repo core.Repository, id, content string) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), core.Document{ID: id, Content: content}))
}

func TestLoader_LoadPrompts(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)

	save(t, repo, "categorize.md", `---
description: shorter classifier prompt
---
Label this query as Technical, Billing or General: {{.Query}}
`)
	save(t, repo, "billing-v2.md", `---
node: handleBilling
---
Answer the billing question: {{.Query}}`)
	save(t, repo, "general.md", `---
node: handleGeneral
disabled: true
---
ignored`)

	loader := New(loam.NewTypedRepository[PromptMetadata](repo))
	prompts, err := loader.LoadPrompts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"categorize":    "Label this query as Technical, Billing or General: {{.Query}}",
		"handleBilling": "Answer the billing question: {{.Query}}",
	}, prompts)
}

func TestLoader_Collision(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)

	save(t, repo, "categorize.md", "---\nnode: categorize\n---\none {{.Query}}")
	save(t, repo, "other.md", "---\nnode: categorize\n---\ntwo {{.Query}}")

	loader := New(loam.NewTypedRepository[PromptMetadata](repo))
	_, err := loader.LoadPrompts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_EmptyBody(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	save(t, repo, "categorize.md", "---\ndescription: nothing here\n---\n")

	loader := New(loam.NewTypedRepository[PromptMetadata](repo))
	_, err := loader.LoadPrompts(context.Background())
	assert.ErrorContains(t, err, "is empty")
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "categorize", trimExtension("categorize.md"))
	assert.Equal(t, "handleBilling", trimExtension("nested/handleBilling.md"))
	assert.Equal(t, "escalate", trimExtension("escalate"))
}

func TestOpen_ReadsBodiesFromDisk(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"categorize.md": "---\ndescription: terse\n---\nCLASSIFY {{.Query}}\n",
		"general.md":    "---\nnode: handleGeneral\n---\nAnswer politely: {{.Query}}\n",
	})

	loader, err := Open(dir)
	require.NoError(t, err)

	prompts, err := loader.LoadPrompts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CLASSIFY {{.Query}}", prompts["categorize"])
	assert.Equal(t, "Answer politely: {{.Query}}", prompts["handleGeneral"])
}
