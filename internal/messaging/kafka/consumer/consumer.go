package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	"go-hrms/internal/mailer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// envelope carries only the discriminator; the full payload is decoded once
// the event type is known.
type envelope struct {
	EventType string `json:"event_type"`
}

type LeaveLifecycleConsumer struct {
	reader    *kafkago.Reader
	employees employee.Repository
	sender    mailer.Sender
	logger    *zap.Logger
}

func NewLeaveLifecycleConsumer(
	reader *kafkago.Reader,
	employees employee.Repository,
	sender mailer.Sender,
	logger ...*zap.Logger,
) *LeaveLifecycleConsumer {
	l := zap.L().Named("consumer.leave_lifecycle")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("consumer.leave_lifecycle")
	}
	return &LeaveLifecycleConsumer{
		reader:    reader,
		employees: employees,
		sender:    sender,
		logger:    l,
	}
}

// Run fetches and handles messages until the context is canceled. A message is
// committed even when handling fails: email delivery is best effort and must
// not wedge the partition.
func (c *LeaveLifecycleConsumer) Run(ctx context.Context) error {
	c.logger.Info("leave lifecycle consumer started", zap.String("topic", events.LeaveLifecycleTopic))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("leave lifecycle consumer stopped")
				return nil
			}
			c.logger.Error("fetch message failed", zap.Error(err))
			return err
		}

		if err := c.handle(ctx, msg); err != nil {
			c.logger.Error("handle message failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit message failed", zap.Error(err))
			return err
		}
	}
}

func (c *LeaveLifecycleConsumer) handle(ctx context.Context, msg kafkago.Message) error {
	var env envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return err
	}

	switch env.EventType {
	case events.EventLeaveRequested:
		return c.handleLeaveRequested(ctx, msg.Value)
	case events.EventLeaveDecided:
		return c.handleLeaveDecided(ctx, msg.Value)
	default:
		c.logger.Warn("unknown event type skipped", zap.String("event_type", env.EventType))
		return nil
	}
}

func (c *LeaveLifecycleConsumer) handleLeaveRequested(ctx context.Context, payload []byte) error {
	var event events.LeaveRequestedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	head, err := c.employees.FindByID(ctx, event.HeadEmployeeID)
	if err != nil {
		return err
	}
	empl, err := c.employees.FindByID(ctx, event.EmployeeID)
	if err != nil {
		return err
	}

	if err := c.sender.SendLeaveRequested(
		ctx,
		head.Email,
		head.FullName,
		empl.FullName,
		event.LeaveType,
		event.StartDate,
		event.EndDate,
	); err != nil {
		return err
	}

	c.logger.Info("leave requested email sent",
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("head_employee_id", event.HeadEmployeeID),
	)
	return nil
}

func (c *LeaveLifecycleConsumer) handleLeaveDecided(ctx context.Context, payload []byte) error {
	var event events.LeaveDecidedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	empl, err := c.employees.FindByID(ctx, event.EmployeeID)
	if err != nil {
		return err
	}

	if err := c.sender.SendLeaveDecided(ctx, empl.Email, empl.FullName, strings.ToLower(event.Status)); err != nil {
		return err
	}

	c.logger.Info("leave decided email sent",
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("status", event.Status),
	)
	return nil
}
