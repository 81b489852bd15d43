package mailrepo

// Repo is the outbound notification collaborator. Only the password-reset
// flow sends mail.
type Repo interface {
	SendPasswordReset(to, resetURL string) error
}
