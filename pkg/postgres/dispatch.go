package postgres

import (
	"github.com/asaidimu/crudsql/pkg/core"
)

type builderFunc func(*Generator, *core.Envelope) (*core.Statement, error)

// routes is the dispatch table; it holds no SQL of its own.
var routes = map[core.Action]builderFunc{
	core.ActionList:        (*Generator).List,
	core.ActionCreate:      (*Generator).Create,
	core.ActionUpdate:      (*Generator).Update,
	core.ActionDelete:      (*Generator).SoftDelete,
	core.ActionCount:       (*Generator).Count,
	core.ActionAggregate:   (*Generator).Aggregate,
	core.ActionBatchCreate: (*Generator).BatchCreate,
}

// Dispatch routes env to the builder for env.Action and returns its output
// unchanged.
func (g *Generator) Dispatch(env *core.Envelope) (*core.Statement, error) {
	if env == nil {
		return nil, core.NewError(core.KindInvalidRequest, "envelope cannot be nil")
	}
	build, ok := routes[env.Action]
	if !ok {
		return nil, core.NewError(core.KindUnknownAction, "unknown action %q", env.Action)
	}
	return build(g, env)
}

// Compile decodes a JSON request and dispatches it.
func (g *Generator) Compile(raw []byte) (*core.Statement, error) {
	env, err := core.DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return g.Dispatch(env)
}
