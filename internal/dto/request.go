package dto

// BookSlotRequest carries the candidate-supplied booking form. SelectedDate
// is free text; an unparseable value falls back to today rather than
// failing. SelectedSlot outside 1..4 behaves like slot 2.
type BookSlotRequest struct {
	SelectedDate string `json:"selectedDate" form:"selectedDate"`
	SelectedSlot int    `json:"selectedSlot" form:"selectedSlot"`
}
