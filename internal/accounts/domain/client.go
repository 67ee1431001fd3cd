package domain

// Client is a registered OAuth application allowed to request authorization
// codes. Official clients are first-party and may be granted extra trust by
// downstream services.
type Client struct {
	ID       int64
	Secret   string
	Official bool
}
