package db

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/tabdex/constants"
	"github.com/jsphweid/tabdex/model"
)

// Catalog keeps one SongMetadata item per document, keyed by filename.
type Catalog struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func New(endpoint, region, table string) (*Catalog, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return NewWithClient(dynamodb.New(sess), table), nil
}

func NewWithClient(client dynamodbiface.DynamoDBAPI, table string) *Catalog {
	return &Catalog{client: client, table: table}
}

func toItem(filename string, m model.SongMetadata) map[string]*dynamodb.AttributeValue {
	item := map[string]*dynamodb.AttributeValue{
		"PK":         {S: aws.String(filename)},
		"Title":      {S: aws.String(m.Title)},
		"Artist":     {S: aws.String(m.Artist)},
		"Instrument": {S: aws.String(m.Instrument)},
		"Measures":   {N: aws.String(strconv.Itoa(m.Measures))},
		"Faults":     {N: aws.String(strconv.Itoa(m.Faults))},
	}
	// DynamoDB rejects empty string sets
	if len(m.Chords) > 0 {
		item["Chords"] = &dynamodb.AttributeValue{SS: aws.StringSlice(m.Chords)}
	}
	return item
}

func str(v *dynamodb.AttributeValue) string {
	if v == nil || v.S == nil {
		return ""
	}
	return *v.S
}

func num(v *dynamodb.AttributeValue) int {
	if v == nil || v.N == nil {
		return 0
	}
	n, _ := strconv.Atoi(*v.N)
	return n
}

func fromItem(item map[string]*dynamodb.AttributeValue) (string, model.SongMetadata) {
	var m model.SongMetadata
	m.Title = str(item["Title"])
	m.Artist = str(item["Artist"])
	m.Instrument = str(item["Instrument"])
	m.Measures = num(item["Measures"])
	m.Faults = num(item["Faults"])
	if v := item["Chords"]; v != nil {
		m.Chords = aws.StringValueSlice(v.SS)
	}
	return str(item["PK"]), m
}

func (c *Catalog) PutSongMetadata(filename string, m model.SongMetadata) error {
	_, err := c.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      toItem(filename, m),
	})
	if err != nil {
		return fmt.Errorf("put %v: %w", filename, err)
	}
	return nil
}

// GetSongMetadatas batch-reads metadata. Filenames with no item are
// missing from the result.
func (c *Catalog) GetSongMetadatas(filenames []string) (map[string]model.SongMetadata, error) {
	if len(filenames) > constants.MaxBatchGet {
		return nil, fmt.Errorf("at most %d filenames per batch, got %d", constants.MaxBatchGet, len(filenames))
	}

	res := make(map[string]model.SongMetadata)

	if len(filenames) == 0 {
		return res, nil
	}

	seen := make(map[string]bool)
	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		if seen[filename] {
			continue
		}
		seen[filename] = true
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(filename)},
		})
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			c.table: {Keys: keys},
		},
	}
	dbres, err := c.client.BatchGetItem(input)
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}

	for _, v := range dbres.Responses[c.table] {
		filename, m := fromItem(v)
		res[filename] = m
	}

	return res, nil
}
