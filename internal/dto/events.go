package dto

// MailEvent is the payload published to the mail topic when outbound
// email is delivered through the queue instead of directly over SMTP.
type MailEvent struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
