package config

// AWSConfig contains S3 and SQS configuration.
//
// Credentials are resolved through the default AWS credential chain
// (environment, shared config, instance role); only the pieces the
// application itself needs to know about live here.
type AWSConfig struct {
	// Region is the AWS region for the S3 bucket and SQS queue.
	Region string `env:"AWS_REGION" envDefault:"ap-southeast-2"`

	// S3Bucket is the bucket holding extracted genome artifacts.
	S3Bucket string `env:"S3_BUCKET_NAME"`

	// SQSQueueURL is the URL of the job notification queue.
	SQSQueueURL string `env:"SQS_QUEUE_URL"`
}
