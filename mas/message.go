package mas

type Performative string

const (
	Request Performative = "REQUEST"
	Inform  Performative = "INFORM"
	Failure Performative = "FAILURE"
)

// Envelope - одиниця доставки між агентами.
type Envelope struct {
	From    string
	To      string
	Type    Performative
	Payload any
}

// Reply відповідає відправникові листа.
func Reply(msg Envelope, perf Performative, payload any) Action {
	return Send(msg.From, perf, payload)
}
