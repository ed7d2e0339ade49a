package receipt

// Field names emitted in every Record.
const (
	FieldAmount         = "amount"
	FieldPickupTime     = "pickup_time"
	FieldBookingType    = "booking_type"
	FieldDriverName     = "driver_name"
	FieldPassengerName  = "passenger_name"
	FieldBookingCode    = "booking_code"
	FieldPickupAddress  = "pickup_address"
	FieldDropoffAddress = "dropoff_address"
)

// RecordFields lists the record keys in output order.
var RecordFields = []string{
	FieldAmount,
	FieldPickupTime,
	FieldBookingType,
	FieldDriverName,
	FieldPassengerName,
	FieldBookingCode,
	FieldPickupAddress,
	FieldDropoffAddress,
}

// Record is the structured e-receipt forwarded to the webhook.
// It is only produced by a successful Extract and is passed by value.
type Record struct {
	Amount         string `json:"amount"`
	PickupTime     string `json:"pickup_time"`
	BookingType    string `json:"booking_type"`
	DriverName     string `json:"driver_name"`
	PassengerName  string `json:"passenger_name"`
	BookingCode    string `json:"booking_code"`
	PickupAddress  string `json:"pickup_address"`
	DropoffAddress string `json:"dropoff_address"`
}

// Fields returns the record as a fresh map keyed by field name.
func (r Record) Fields() map[string]string {
	return map[string]string{
		FieldAmount:         r.Amount,
		FieldPickupTime:     r.PickupTime,
		FieldBookingType:    r.BookingType,
		FieldDriverName:     r.DriverName,
		FieldPassengerName:  r.PassengerName,
		FieldBookingCode:    r.BookingCode,
		FieldPickupAddress:  r.PickupAddress,
		FieldDropoffAddress: r.DropoffAddress,
	}
}

func (r *Record) set(field, value string) bool {
	switch field {
	case FieldAmount:
		r.Amount = value
	case FieldPickupTime:
		r.PickupTime = value
	case FieldBookingType:
		r.BookingType = value
	case FieldDriverName:
		r.DriverName = value
	case FieldPassengerName:
		r.PassengerName = value
	case FieldBookingCode:
		r.BookingCode = value
	case FieldPickupAddress:
		r.PickupAddress = value
	case FieldDropoffAddress:
		r.DropoffAddress = value
	default:
		return false
	}
	return true
}
