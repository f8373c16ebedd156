package domain

// Reject reason strings surfaced on Order.RejectReason. Kept as constants
// (not a typed error) because rejection is a value on the normal return
// path, not a Go error.
const (
	ReasonUnknownSymbol    = "unknown_symbol"
	ReasonNonPositiveQty   = "quantity_must_be_positive"
	ReasonNegativePrice    = "price_must_be_positive"
	ReasonMissingPrice     = "price_required_for_order_type"
	ReasonScaleViolation   = "price_or_quantity_scale_violation"
	ReasonDuplicateID      = "duplicate_order_id"
	ReasonUnfillable       = "fok_not_fully_fillable"
	ReasonOrderTypeUnknown = "unknown_order_type"
)
