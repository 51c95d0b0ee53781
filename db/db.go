package db

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"

	"github.com/jsphweid/xmlabc/constants"
	"github.com/jsphweid/xmlabc/model"
)

// BatchGetItem takes at most this many keys
const MaxBatch = 10

// Catalog keeps the metadata of converted scores.
type Catalog interface {
	PutScore(meta model.ScoreMetadata) error
	GetScores(filenames []string) (map[string]model.ScoreMetadata, error)
}

// New connects to the DynamoDB catalog. Without a configured endpoint
// nothing is stored.
func New() (Catalog, error) {
	endpoint := constants.GetDynamoEndpoint()
	if endpoint == "" {
		return Noop{}, nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewDynamo(dynamodb.New(sess), constants.GetDynamoTable()), nil
}

type Noop struct{}

func (Noop) PutScore(model.ScoreMetadata) error { return nil }

func (Noop) GetScores([]string) (map[string]model.ScoreMetadata, error) {
	return map[string]model.ScoreMetadata{}, nil
}

type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamo(client dynamodbiface.DynamoDBAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table}
}

func item(meta model.ScoreMetadata) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK":         {S: aws.String(meta.Filename)},
		"Title":      {S: aws.String(meta.Title)},
		"Composer":   {S: aws.String(meta.Composer)},
		"Voices":     {N: aws.String(strconv.Itoa(meta.Voices))},
		"UnitLength": {N: aws.String(strconv.Itoa(meta.UnitLength))},
	}
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

func metadata(v map[string]*dynamodb.AttributeValue) model.ScoreMetadata {
	return model.ScoreMetadata{
		Filename:   str(v["PK"]),
		Title:      str(v["Title"]),
		Composer:   str(v["Composer"]),
		Voices:     num(v["Voices"]),
		UnitLength: num(v["UnitLength"]),
	}
}

func (d *Dynamo) PutScore(meta model.ScoreMetadata) error {
	_, err := d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item(meta),
	})
	return errors.Wrapf(err, "storing %s", meta.Filename)
}

// GetScores looks up the scores in batches of MaxBatch. Unknown names are
// missing from the result.
func (d *Dynamo) GetScores(filenames []string) (map[string]model.ScoreMetadata, error) {
	res := make(map[string]model.ScoreMetadata)
	for start := 0; start < len(filenames); start += MaxBatch {
		end := start + MaxBatch
		if end > len(filenames) {
			end = len(filenames)
		}
		var keys []map[string]*dynamodb.AttributeValue
		for _, filename := range filenames[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(filename)},
			})
		}
		out, err := d.client.BatchGetItem(&dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				d.table: {Keys: keys},
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, "error from DynamoDB")
		}
		for _, v := range out.Responses[d.table] {
			meta := metadata(v)
			res[meta.Filename] = meta
		}
	}
	return res, nil
}
