// Package sqsqueue provides the SQS-backed job notification queue adapter.
package sqsqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/bioquery/taxoblast/internal/core"
)

// SQSAPI is the subset of the SQS client the queue uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// defaultReceiveWait is the SQS long-poll window when none is configured.
// SQS caps the wait at 20 seconds.
const defaultReceiveWait = 5 * time.Second

// Options groups configuration for Queue.
type Options struct {
	Client   SQSAPI
	QueueURL string
	// ReceiveWait is the long-poll window per receive call.
	ReceiveWait time.Duration
}

// Queue implements core.JobQueue over an SQS queue.
type Queue struct {
	client      SQSAPI
	queueURL    string
	waitSeconds int32
}

// New creates a Queue from options.
func New(opts Options) *Queue {
	wait := opts.ReceiveWait
	if wait <= 0 {
		wait = defaultReceiveWait
	}
	if wait > 20*time.Second {
		wait = 20 * time.Second
	}
	return &Queue{
		client:      opts.Client,
		queueURL:    opts.QueueURL,
		waitSeconds: int32(wait / time.Second),
	}
}

// Enqueue publishes a notification for the given job id.
func (q *Queue) Enqueue(ctx context.Context, jobID int64) error {
	body, err := json.Marshal(core.JobNotification{JobID: jobID})
	if err != nil {
		return fmt.Errorf("marshal job notification: %w", err)
	}

	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("send message for job %d: %w", jobID, err)
	}
	return nil
}

// Receive long-polls for at most one message. It returns nil when the poll
// window elapses without a message.
func (q *Queue) Receive(ctx context.Context) (*core.QueueMessage, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     q.waitSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("receive message: %w", err)
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}

	msg := out.Messages[0]
	return &core.QueueMessage{
		Body:          aws.ToString(msg.Body),
		ReceiptHandle: aws.ToString(msg.ReceiptHandle),
	}, nil
}

// Delete removes a delivered message from the queue.
func (q *Queue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
