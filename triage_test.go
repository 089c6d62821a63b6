package triage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/testutils"
	"github.com/aretw0/triage/pkg/adapters/memory"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/runner"
	"github.com/aretw0/triage/pkg/support"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func script(category, sentiment string) memory.Script {
	return memory.Script{
		Rules: []memory.Rule{
			{Match: "Categorize", Reply: category},
			{Match: "Analyze the sentiment", Reply: sentiment},
		},
		Fallback: "stub response",
	}
}

func TestEngine_Triage(t *testing.T) {
	eng, err := triage.New(script("Technical", "Neutral"))
	require.NoError(t, err)

	res, err := eng.Triage(context.Background(), "My app crashes on login")
	require.NoError(t, err)

	assert.Equal(t, []string{"categorize", "analyzeSentiment", "handleTechnical"}, res.Path)
	assert.Equal(t, "stub response", res.State.Response)
	assert.NotEmpty(t, res.RunID)
}

func TestEngine_Escalation(t *testing.T) {
	eng, err := triage.New(script("Billing", "Negative"))
	require.NoError(t, err)

	res, err := eng.Triage(context.Background(), "My app crashes on login")
	require.NoError(t, err)

	assert.Equal(t, []string{"categorize", "analyzeSentiment", "escalate"}, res.Path)
	assert.Equal(t, "This query has been escalated to a human agent due to its negative sentiment", res.State.Response)
}

func TestEngine_Execute(t *testing.T) {
	eng, err := triage.New(script("SomethingUnexpected", "Positive"))
	require.NoError(t, err)

	state, err := eng.Execute(context.Background(), domain.NewState("hello"))
	require.NoError(t, err)
	assert.Equal(t, "SomethingUnexpected", state.Category)
	assert.Equal(t, "stub response", state.Response)
}

func TestEngine_FailureReturnsNoState(t *testing.T) {
	eng, err := triage.New(memory.Static{Err: errors.New("rate limited")})
	require.NoError(t, err)

	state, err := eng.Execute(context.Background(), domain.NewState("hello"))
	var nodeErr *domain.NodeExecutionError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, domain.State{}, state)
}

func TestEngine_EmptyQuery(t *testing.T) {
	eng, err := triage.New(script("General", "Neutral"))
	require.NoError(t, err)

	_, err = eng.Triage(context.Background(), "   ")
	assert.ErrorIs(t, err, triage.ErrEmptyQuery)
}

func TestEngine_SanitizesQuery(t *testing.T) {
	rec := memory.NewRecorder(script("General", "Neutral"))
	eng, err := triage.New(rec, triage.WithMaxInputSize(16))
	require.NoError(t, err)

	res, err := eng.Triage(context.Background(), "  hi\x00 there \n")
	require.NoError(t, err)
	assert.Equal(t, "hi there", res.State.Query)

	_, err = eng.Triage(context.Background(), "\x07\x1b")
	assert.ErrorIs(t, err, triage.ErrEmptyQuery)

	calls := rec.Calls()
	_, err = eng.Triage(context.Background(), strings.Repeat("x", 17))
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
	assert.Equal(t, calls, rec.Calls(), "rejected queries never reach the collaborator")
}

func TestEngine_Hooks(t *testing.T) {
	var visits []string
	eng, err := triage.New(script("Billing", "Positive"), triage.WithLifecycleHooks(domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) { visits = append(visits, e.NodeID) },
	}))
	require.NoError(t, err)

	_, err = eng.Triage(context.Background(), "refund")
	require.NoError(t, err)
	assert.Equal(t, []string{"categorize", "analyzeSentiment", "handleBilling"}, visits)
}

func TestEngine_PromptSources(t *testing.T) {
	t.Run("loader then explicit prompts", func(t *testing.T) {
		rec := memory.NewRecorder(memory.Static{Text: "General"})
		eng, err := triage.New(rec,
			triage.WithPromptLoader(memory.NewLoader(map[string]string{
				support.NodeCategorize:       "from loader {{.Query}}",
				support.NodeAnalyzeSentiment: "sentiment from loader {{.Query}}",
			})),
			triage.WithPrompts(map[string]string{support.NodeCategorize: "explicit {{.Query}}"}),
		)
		require.NoError(t, err)

		_, err = eng.Triage(context.Background(), "q")
		require.NoError(t, err)
		prompts := rec.Prompts()
		assert.Equal(t, "explicit q", prompts[0])
		assert.Equal(t, "sentiment from loader q", prompts[1])
	})

	t.Run("prompt dir", func(t *testing.T) {
		dir := testutils.WriteFiles(t, map[string]string{
			"categorize.md": "---\ndescription: terse\n---\nCLASSIFY {{.Query}}\n",
		})
		rec := memory.NewRecorder(memory.Static{Text: "General"})
		eng, err := triage.New(rec, triage.WithPromptDir(dir))
		require.NoError(t, err)

		_, err = eng.Triage(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, "CLASSIFY q", rec.Prompts()[0])
	})

	t.Run("bad prompt fails at construction", func(t *testing.T) {
		_, err := triage.New(script("General", "Neutral"), triage.WithPrompts(map[string]string{
			"nonexistent": "x",
		}))
		var unknown *support.UnknownPromptError
		assert.ErrorAs(t, err, &unknown)
	})
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, triage.Version)
}
