package resolver

import (
	"sort"
	"strings"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/model"
)

// BuildOrder computes the topological build order of ws.Projects
// (spec.md §4.2 "The Resolver then computes the build order of projects by
// topological sort of the dependency DAG"). model.Workspace.Freeze already
// rejects cyclic graphs on entry; BuildOrder re-detects here too so a
// Workspace built without going through Freeze (e.g. directly in a test)
// still gets a named, deterministic error rather than a silent partial
// order.
func BuildOrder(ws *model.Workspace) ([]*model.Project, error) {
	order, cycle, ok := model.TopoOrder(ws.Projects)
	if !ok {
		sort.Strings(cycle)
		return nil, jengaerr.Configuration("dependency cycle among projects: %s", strings.Join(cycle, ", "))
	}
	return order, nil
}
