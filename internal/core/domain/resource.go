package domain

// Resource is anything subject to an ownership check. The set of
// implementations is closed to this package: *Order and *Payment.
type Resource interface {
	OwnerID() int64
	resourceKind() string
}

// ResourceKind names the concrete kind of r, for logs.
func ResourceKind(r Resource) string {
	return r.resourceKind()
}
