package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/assessio/assessment-service/internal/models"
	"github.com/assessio/assessment-service/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ResultConsumer ingests test results published by the grading pipeline.
// This service never produces results itself; stats queries read them.
type ResultConsumer struct {
	results repository.ResultRepository
}

func NewResultConsumer(results repository.ResultRepository) *ResultConsumer {
	return &ResultConsumer{results: results}
}

func (rc *ResultConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			rc.handleMessage(msg)
		}
		log.Println("[ResultConsumer] channel closed, stopping consumer")
	}()
}

func (rc *ResultConsumer) handleMessage(msg amqp.Delivery) {
	var result models.TestResult
	if err := json.Unmarshal(msg.Body, &result); err != nil {
		log.Printf("[ResultConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	if err := rc.results.Upsert(context.Background(), &result); err != nil {
		log.Printf("[ResultConsumer] failed to upsert result %d: %v", result.ID, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[ResultConsumer] stored result %d for test %d candidate %s", result.ID, result.TestID, result.CandidateSapID)
	msg.Ack(false)
}
