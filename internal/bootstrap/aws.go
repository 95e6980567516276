package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/bioquery/taxoblast/config"
	"github.com/bioquery/taxoblast/internal/adapters/s3store"
	"github.com/bioquery/taxoblast/internal/adapters/sqsqueue"
)

// AWSClients holds the infrastructure adapters backed by AWS services.
type AWSClients struct {
	ObjectStore *s3store.Store
	JobQueue    *sqsqueue.Queue
}

// ConnectAWS resolves AWS clients through the default credential chain and
// builds the object store and job queue adapters.
func ConnectAWS(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*AWSClients, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	store := s3store.New(s3.NewFromConfig(awsCfg), cfg.AWS.S3Bucket)
	queue := sqsqueue.New(sqsqueue.Options{
		Client:      sqs.NewFromConfig(awsCfg),
		QueueURL:    cfg.AWS.SQSQueueURL,
		ReceiveWait: cfg.Worker.PollWait,
	})

	if logger != nil {
		logger.Info("aws clients ready",
			"region", cfg.AWS.Region,
			"bucket", cfg.AWS.S3Bucket,
		)
	}
	return &AWSClients{ObjectStore: store, JobQueue: queue}, nil
}
