package ws

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/Divyendra-S/sasha/internal/domain/record"
	"github.com/Divyendra-S/sasha/internal/domain/session"
	"github.com/Divyendra-S/sasha/internal/platform/logging"
)

// Client binds one websocket connection to a conversation session. It
// is the pipeline's message sink: guidance and record updates are
// pushed back over the same socket the transcript arrives on.
type Client struct {
	conn    *Connection
	manager *session.Manager
	sess    *session.Session
	logger  *logging.Logger
}

// NewClient creates the handler and its backing session.
func NewClient(ctx context.Context, conn *Connection, manager *session.Manager, logger *logging.Logger) (*Client, error) {
	c := &Client{
		conn:    conn,
		manager: manager,
		logger:  logger,
	}
	sess, err := manager.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.sess = sess

	c.send(Outbound{Type: FrameSession, SessionID: sess.ID})
	return c, nil
}

// GetSessionID implements SessionHandler.
func (c *Client) GetSessionID() string {
	return c.sess.ID
}

// Handle runs the read loop until the client disconnects.
func (c *Client) Handle() {
	for {
		messageType, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.WarnTag("WebSocket", "session %s read failed: %v", c.sess.ID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var frame Inbound
		if err := sonic.Unmarshal(payload, &frame); err != nil {
			c.logger.WarnTag("WebSocket", "session %s dropped malformed frame: %v", c.sess.ID, err)
			continue
		}

		switch frame.Type {
		case FrameTranscript:
			c.sess.OnTranscript(frame.Text, frame.Direction, frame.Final)
		default:
			c.logger.DebugTag("WebSocket", "session %s ignored frame type %q", c.sess.ID, frame.Type)
		}
	}
}

// Close implements SessionHandler: the domain session is torn down
// and archived.
func (c *Client) Close() {
	c.manager.Close(context.Background(), c.sess.ID)
}

// SendGuidance implements session.MessageSink.
func (c *Client) SendGuidance(ctx context.Context, text string) error {
	return c.send(Outbound{Type: FrameGuidance, SessionID: c.sess.ID, Text: text})
}

// SendRecordUpdate implements session.MessageSink.
func (c *Client) SendRecordUpdate(snapshot record.Snapshot) error {
	return c.send(Outbound{Type: FrameRecordUpdate, SessionID: c.sess.ID, Record: &snapshot})
}

func (c *Client) send(frame Outbound) error {
	data, err := sonic.Marshal(frame)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
