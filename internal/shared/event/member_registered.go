package event

const MemberRegisteredDestination string = "member_registered"
const MemberRegisteredConsumerNotification string = "member_registered_notification"

type MemberRegisteredMessage struct {
	MemberID  int64  `json:"member_id,string"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
