// Package scenario drives the catalog lifecycle scenario: an ordered
// pipeline of named steps, each issued only once the resources it needs have
// been created earlier in the same pass.
package scenario

import (
	"fmt"
	"net/http"

	"github.com/wesleyorama2/catbench/internal/names"
)

// Resource is a catalog object a step depends on or affects.
type Resource string

const (
	ResourceNamespace    Resource = "namespace"
	ResourceTable        Resource = "table"
	ResourceRenamedTable Resource = "renamed-table"
)

// Step is one call of the scenario.
type Step struct {
	Name     string
	Method   string
	Path     func(names.Set) string
	Payload  func(names.Set) interface{}
	Requires []Resource
	Creates  []Resource
	Removes  []Resource
}

// Pipeline is an ordered list of steps.
type Pipeline []Step

// Validate checks that every step only requires resources created by an
// earlier step and not removed since.
func (p Pipeline) Validate() error {
	state := make(State)
	seen := make(map[string]bool, len(p))
	for i, step := range p {
		if step.Name == "" {
			return fmt.Errorf("step %d has no name", i+1)
		}
		if seen[step.Name] {
			return fmt.Errorf("duplicate step %q", step.Name)
		}
		seen[step.Name] = true
		if step.Path == nil {
			return fmt.Errorf("step %q has no path", step.Name)
		}
		if missing := state.Missing(step.Requires); len(missing) > 0 {
			return fmt.Errorf("step %q requires %v which no earlier step provides", step.Name, missing)
		}
		state.Apply(step)
	}
	return nil
}

// State tracks which resources exist in program order.
type State map[Resource]bool

// Missing returns the resources in req that do not exist.
func (s State) Missing(req []Resource) []Resource {
	var missing []Resource
	for _, r := range req {
		if !s[r] {
			missing = append(missing, r)
		}
	}
	return missing
}

// Apply records the effect of a completed step.
func (s State) Apply(step Step) {
	for _, r := range step.Creates {
		s[r] = true
	}
	for _, r := range step.Removes {
		delete(s, r)
	}
}

// Lifecycle returns the fixed seven-step catalog scenario. The namespace and
// the original table are left in place; only the renamed table is deleted.
func Lifecycle() Pipeline {
	return Pipeline{
		{
			Name:   "create-namespace",
			Method: http.MethodPost,
			Path:   func(names.Set) string { return NamespacesPath },
			Payload: func(n names.Set) interface{} {
				return CreateNamespaceRequest{Namespace: []string{n.Namespace}}
			},
			Creates: []Resource{ResourceNamespace},
		},
		{
			Name:     "get-namespace",
			Method:   http.MethodGet,
			Path:     func(n names.Set) string { return NamespacePath(n.Namespace) },
			Requires: []Resource{ResourceNamespace},
		},
		{
			Name:   "create-table",
			Method: http.MethodPost,
			Path:   func(n names.Set) string { return TablesPath(n.Namespace) },
			Payload: func(n names.Set) interface{} {
				return CreateTableRequest{Name: n.Table}
			},
			Requires: []Resource{ResourceNamespace},
			Creates:  []Resource{ResourceTable},
		},
		{
			Name:     "get-table",
			Method:   http.MethodGet,
			Path:     func(n names.Set) string { return TablePath(n.Namespace, n.Table) },
			Requires: []Resource{ResourceNamespace, ResourceTable},
		},
		{
			Name:   "rename-table",
			Method: http.MethodPost,
			Path:   func(names.Set) string { return RenameTablePath },
			Payload: func(n names.Set) interface{} {
				return RenameTableRequest{
					Source:      TableIdentifier{Namespace: []string{n.Namespace}, Name: n.Table},
					Destination: TableIdentifier{Namespace: []string{n.Namespace}, Name: n.RenamedTable},
				}
			},
			Requires: []Resource{ResourceNamespace, ResourceTable},
			Creates:  []Resource{ResourceRenamedTable},
			Removes:  []Resource{ResourceTable},
		},
		{
			Name:     "get-renamed-table",
			Method:   http.MethodGet,
			Path:     func(n names.Set) string { return TablePath(n.Namespace, n.RenamedTable) },
			Requires: []Resource{ResourceNamespace, ResourceRenamedTable},
		},
		{
			Name:     "delete-renamed-table",
			Method:   http.MethodDelete,
			Path:     func(n names.Set) string { return TablePath(n.Namespace, n.RenamedTable) },
			Requires: []Resource{ResourceNamespace, ResourceRenamedTable},
			Removes:  []Resource{ResourceRenamedTable},
		},
	}
}
