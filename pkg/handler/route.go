package handler

// Route type
type Route string

const (
	// RouteStore store the state of an instance
	RouteStore Route = "store"
	// RouteRestore restore the state of an instance
	RouteRestore Route = "restore"
	// RouteDispose dispose checkpoints of a topology
	RouteDispose Route = "dispose"
	// RouteList list checkpoint ids of a topology
	RouteList Route = "list"
)
