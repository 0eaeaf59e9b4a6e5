package mail

type campaignEmailData struct {
	Message string
	From    string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Subject  string
}
