package db

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/jsphweid/rollprep/constants"
	"github.com/jsphweid/rollprep/logging"
	"github.com/jsphweid/rollprep/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// retryDelay is multiplied by the attempt number between retries of
// unprocessed keys.
var retryDelay = 200 * time.Millisecond

// BatchGetter is the part of the dynamodb client used here.
type BatchGetter interface {
	BatchGetItem(*dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error)
}

func NewClient() (*dynamodb.DynamoDB, error) {
	endpoint := constants.GetMetadataEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return dynamodb.New(sess), nil
}

// GetMidiMetadatas looks up metadata keyed by the base name of each file.
// Files without an entry are left out of the result.
func GetMidiMetadatas(client BatchGetter, table string, filenames []string) (map[string]model.MidiMetadata, error) {
	res := make(map[string]model.MidiMetadata)

	for start := 0; start < len(filenames); start += constants.MetadataBatchSize {
		end := start + constants.MetadataBatchSize
		if end > len(filenames) {
			end = len(filenames)
		}
		batch := filenames[start:end]

		byKey := make(map[string]string)
		var keys []map[string]*dynamodb.AttributeValue
		for _, filename := range batch {
			pk := filepath.Base(filename)
			if _, ok := byKey[pk]; ok {
				continue
			}
			byKey[pk] = filename
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(pk)},
			})
		}

		items, err := batchGet(client, table, keys)
		if err != nil {
			return nil, err
		}
		for _, v := range items {
			pk := stringAttr(v, "PK")
			filename, ok := byKey[pk]
			if !ok {
				continue
			}
			res[filename] = parseItem(v)
		}
	}

	return res, nil
}

// batchGet asks again for keys DynamoDB left unprocessed, up to
// MetadataRetries times. Keys still unprocessed after that are dropped
// with a warning.
func batchGet(client BatchGetter, table string, keys []map[string]*dynamodb.AttributeValue) ([]map[string]*dynamodb.AttributeValue, error) {
	var items []map[string]*dynamodb.AttributeValue
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			table: {Keys: keys},
		},
	}
	for attempt := 0; ; attempt++ {
		dbres, err := client.BatchGetItem(input)
		if err != nil {
			return nil, errors.Wrap(err, "error from DynamoDB")
		}
		items = append(items, dbres.Responses[table]...)

		unprocessed, ok := dbres.UnprocessedKeys[table]
		if !ok || unprocessed == nil || len(unprocessed.Keys) == 0 {
			return items, nil
		}
		if attempt == constants.MetadataRetries {
			logging.Named("db").Warn("giving up on unprocessed keys",
				zap.String("table", table),
				zap.Int("keys", len(unprocessed.Keys)))
			return items, nil
		}
		time.Sleep(time.Duration(attempt+1) * retryDelay)
		input = &dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{table: unprocessed},
		}
	}
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v != nil && v.S != nil {
		return *v.S
	}
	return ""
}

func parseItem(item map[string]*dynamodb.AttributeValue) model.MidiMetadata {
	var s model.MidiMetadata
	if v, ok := item["Year"]; ok && v != nil && v.N != nil {
		year, _ := strconv.ParseUint(*v.N, 10, 32)
		s.Year = uint(year)
	}
	s.Artist = stringAttr(item, "Artist")
	s.Release = stringAttr(item, "Release")
	s.Title = stringAttr(item, "Title")
	return s
}
