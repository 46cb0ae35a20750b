package ctdf

type OperatorID string

const (
	OperatorKMB      OperatorID = "kmb"
	OperatorMTRLRT   OperatorID = "mtr_lrt"
	OperatorMTRBus   OperatorID = "mtr_bus"
	OperatorMTRTrain OperatorID = "mtr_train"
)

// Operator is the descriptive half of a registered operator, the part that
// gets serialised out to the API and CLI listings.
type Operator struct {
	Identifier    OperatorID    `groups:"basic" json:"identifier"`
	PrimaryName   string        `groups:"basic" json:"primary_name"`
	TransportType TransportType `groups:"basic" json:"transport_type"`

	Website string `groups:"detailed" json:"website,omitempty"`
}
