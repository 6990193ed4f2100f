package fix_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
	"github.com/stretchr/testify/require"
)

// renameRule flags identifiers spelled from and corrects them to to.
type renameRule struct {
	linter.BaseRule
	from, to string
	panic    bool
}

func (r *renameRule) matches(tok *syntax.Node) bool {
	return tok.TokenKind() == syntax.TokenIdentifier && tok.TokenText() == r.from
}

func (r *renameRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	v := &visitor.Funcs{Token: func(tok *syntax.Node) {
		if r.matches(tok) {
			c.AddCorrectable(tok.Start(), r.from+" should be "+r.to,
				violation.Edit{Start: tok.Start(), End: tok.End(), Replacement: r.to})
		}
	}}
	return visitor.Collect(file.Root, v, c)
}

func (r *renameRule) Rewriter(ctx *visitor.CorrectionContext) visitor.Rewriter {
	return visitor.Rewriter{Rewrite: map[syntax.Kind]func(*syntax.Node) *syntax.Node{
		syntax.KindToken: func(tok *syntax.Node) *syntax.Node {
			if r.panic {
				panic("rewrite exploded")
			}
			if !r.matches(tok) || !ctx.ShouldCorrect(tok) {
				return tok
			}
			ctx.Record(tok)
			return tok.WithText(r.to)
		},
	}}
}

func renameFactory(id, from, to string, broken bool) linter.Factory {
	return func(cfg linter.RuleConfiguration) (linter.Rule, error) {
		return &renameRule{
			BaseRule: linter.BaseRule{
				Desc: linter.Description{
					Identifier: id,
					Name:       id,
					Kind:       linter.KindStyle,
				},
				Config: cfg,
			},
			from:  from,
			to:    to,
			panic: broken,
		}, nil
	}
}

func newLinter(t *testing.T, factories ...linter.Factory) *linter.Linter {
	t.Helper()
	registry := linter.NewRegistry()
	for _, f := range factories {
		require.NoError(t, registry.Register(f))
	}
	l, err := linter.NewLinter(nil, registry, linter.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return l
}
