package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldPath      = "path"
	FieldBackend   = "backend"
	FieldCategory  = "category"
	FieldCard      = "card"
	FieldCurrency  = "currency"
	FieldSymbol    = "symbol"
	FieldMonth     = "month"
	FieldRows      = "rows"
	FieldFrom      = "from"
	FieldTo        = "to"
	FieldDuration  = "duration_ms"
	FieldFilename  = "filename"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentSettings = "settings"
	ComponentReport   = "report"
	ComponentMarket   = "market"
	ComponentSink     = "sink"
	ComponentStorage  = "storage"
)
