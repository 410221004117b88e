package permission

// Namespace is the resource family of a permission: the segment before the first dot.
type Namespace string

// Known namespaces.
const (
	NamespaceOrg       Namespace = "org"
	NamespaceUsers     Namespace = "users"
	NamespaceRoles     Namespace = "roles"
	NamespaceProjects  Namespace = "projects"
	NamespaceTasks     Namespace = "tasks"
	NamespaceTickets   Namespace = "tickets"
	NamespaceCRM       Namespace = "crm"
	NamespaceDocuments Namespace = "documents"
	NamespaceTime      Namespace = "time"
	NamespaceAnalytics Namespace = "analytics"
	NamespaceMessages  Namespace = "messages"
	NamespaceBilling   Namespace = "billing"
)

var namespaces = []Namespace{
	NamespaceOrg,
	NamespaceUsers,
	NamespaceRoles,
	NamespaceProjects,
	NamespaceTasks,
	NamespaceTickets,
	NamespaceCRM,
	NamespaceDocuments,
	NamespaceTime,
	NamespaceAnalytics,
	NamespaceMessages,
	NamespaceBilling,
}

// Namespaces returns the catalog of known namespaces.
func Namespaces() []Namespace {
	out := make([]Namespace, len(namespaces))
	copy(out, namespaces)
	return out
}

// Known reports whether the namespace is part of the catalog.
func (n Namespace) Known() bool {
	for _, ns := range namespaces {
		if ns == n {
			return true
		}
	}
	return false
}

func (n Namespace) String() string { return string(n) }
