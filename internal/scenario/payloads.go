package scenario

// CreateNamespaceRequest is the body of POST namespaces.
type CreateNamespaceRequest struct {
	Namespace []string `json:"namespace" yaml:"namespace"`
}

// CreateTableRequest is the body of POST namespaces/{ns}/tables.
type CreateTableRequest struct {
	Name string `json:"name" yaml:"name"`
}

// TableIdentifier names a table inside a namespace.
type TableIdentifier struct {
	Namespace []string `json:"namespace" yaml:"namespace"`
	Name      string   `json:"name" yaml:"name"`
}

// RenameTableRequest is the body of POST tables/rename.
type RenameTableRequest struct {
	Source      TableIdentifier `json:"source" yaml:"source"`
	Destination TableIdentifier `json:"destination" yaml:"destination"`
}

// NamespacesPath is the namespace collection endpoint.
const NamespacesPath = "namespaces"

// RenameTablePath is the fixed rename endpoint.
const RenameTablePath = "tables/rename"

// NamespacePath returns namespaces/{ns}.
func NamespacePath(namespace string) string {
	return NamespacesPath + "/" + namespace
}

// TablesPath returns namespaces/{ns}/tables.
func TablesPath(namespace string) string {
	return NamespacePath(namespace) + "/tables"
}

// TablePath returns namespaces/{ns}/tables/{table}.
func TablePath(namespace, table string) string {
	return TablesPath(namespace) + "/" + table
}
