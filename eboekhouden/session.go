package eboekhouden

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ensureSession opens a session on first use and is a no-op afterwards.
// The service's session lifetime is opaque: there is no refresh or expiry
// detection, an invalidated session surfaces as a RemoteServiceError on
// whatever operation hits it.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.sessionID != "" {
		return nil
	}

	resp, err := c.transport.Invoke(ctx, opOpenSession, map[string]any{
		"Username":      c.username,
		"SecurityCode1": c.securityCode1,
		"SecurityCode2": c.securityCode2,
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, opOpenSession), ErrTransport)
	}
	if err := checkError(opOpenSession, resp); err != nil {
		var re *RemoteServiceError
		if errors.As(err, &re) {
			return &SessionError{Description: re.Description}
		}
		return err
	}

	result := asRecord(resp[opOpenSession+"Result"])
	sessionID := result.str("SessionID")
	if sessionID == "" {
		return &SessionError{Description: "service returned no session id"}
	}

	c.sessionID = sessionID
	c.logger.Debugw("session opened")
	return nil
}

// Close releases the session server-side. It is a no-op when no session is
// open, so closing twice is safe. The client is unusable only in the sense
// that the next operation opens a fresh session.
func (c *Client) Close(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}

	sessionID := c.sessionID
	c.sessionID = ""

	_, err := c.transport.Invoke(ctx, opCloseSession, map[string]any{
		"SessionID": sessionID,
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, opCloseSession), ErrTransport)
	}
	c.logger.Debugw("session closed")
	return nil
}
