package ctxkeys

type Key int

const (
	VisitorID         Key = iota
	BackendConfigured     // bool: whether API_BASE_URL is set
	DatastarScriptURL     // string: client bundle URL for the layout
)
