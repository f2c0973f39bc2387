package gate

// deps rebuilds the collaborators of c so tests can vary one of them.
func (c *Controller) deps() Deps {
	return Deps{
		Reader:    c.reader,
		Requester: c.requester,
		Tokens:    c.tokens,
		BaseURL:   c.baseURL,
		Signals:   c.signals,
		Peer:      c.peer,
		Clock:     c.clock,
	}
}
