// Package kafka moves alignment requests and results over kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/kpaschen/tsalign/lib/datatypes"
	"github.com/rs/xid"
	kafka "github.com/segmentio/kafka-go"
)

const (
	REQUEST_TOPIC = "tsalign_requests"
	RESULT_TOPIC  = "tsalign_results"
)

// An Aligner answers a single alignment request.
type Aligner interface {
	Align(req *datatypes.AlignRequest) (*datatypes.AlignResponse, error)
}

// MessageReader is the part of *kafka.Reader the worker uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// MessageWriter is the part of *kafka.Writer the worker uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Worker struct {
	reader  MessageReader
	writer  MessageWriter
	aligner Aligner
}

func NewWorker(reader MessageReader, writer MessageWriter, aligner Aligner) *Worker {
	return &Worker{
		reader:  reader,
		writer:  writer,
		aligner: aligner,
	}
}

func errorMessage(id string, err error) kafka.Message {
	value, _ := json.Marshal(&datatypes.ErrorResponse{Id: id, Error: err.Error()})
	return kafka.Message{Key: []byte(id), Value: value}
}

// HandleMessage aligns the request in msg and returns the result message.
// Failures are reported in an error message with the request id as key.
func HandleMessage(aligner Aligner, msg kafka.Message) kafka.Message {
	req := &datatypes.AlignRequest{}
	if err := json.Unmarshal(msg.Value, req); err != nil {
		id := string(msg.Key)
		if id == "" {
			id = xid.New().String()
		}
		return errorMessage(id, fmt.Errorf("failed to decode request: %v", err))
	}
	if req.Id == "" {
		req.Id = string(msg.Key)
	}
	resp, err := aligner.Align(req)
	if err != nil {
		return errorMessage(req.Id, err)
	}
	value, err := json.Marshal(resp)
	if err != nil {
		return errorMessage(resp.Id, err)
	}
	return kafka.Message{Key: []byte(resp.Id), Value: value}
}

// Run handles requests until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	log.Println("kafka worker waiting for alignment requests")
	for {
		msg, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("failed to read request message: %v\n", err)
			continue
		}
		log.Printf("received request with key %s, partition %d\n", string(msg.Key), msg.Partition)
		result := HandleMessage(w.aligner, msg)
		if err = w.writer.WriteMessages(ctx, result); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("failed to send result for %s: %v\n", string(result.Key), err)
		}
	}
}
