package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"tasklist-backend/infrastructure/config"
	"tasklist-backend/infrastructure/di"
)

var container *di.Container

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// Handler processes Cognito pre-token-generation trigger events.
func Handler(ctx context.Context, event events.CognitoEventUserPoolsPreTokenGen) (events.CognitoEventUserPoolsPreTokenGen, error) {
	out, err := container.PreToken.Handle(ctx, event)
	container.Metrics.RecordHookResult("PreTokenGeneration", err == nil)
	return out, err
}

func main() {
	lambda.Start(Handler)
}
