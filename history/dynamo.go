package history

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/chordplay/model"
	"github.com/pkg/errors"
)

// Dynamo stores session records in a DynamoDB table keyed by "PK".
type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamo(client dynamodbiface.DynamoDBAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table}
}

// DialDynamo connects to endpoint, e.g. http://localhost:8000 for DynamoDB
// Local.
func DialDynamo(endpoint, region, table string) (*Dynamo, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a DynamoDB session")
	}
	return NewDynamo(dynamodb.New(sess), table), nil
}

func (d *Dynamo) Record(ctx context.Context, rec model.SessionRecord) error {
	_, err := d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      toItem(rec),
	})
	return errors.Wrapf(err, "storing session %v", rec.Id)
}

func (d *Dynamo) Get(ctx context.Context, id string) (model.SessionRecord, error) {
	out, err := d.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return model.SessionRecord{}, errors.Wrapf(err, "loading session %v", id)
	}
	if len(out.Item) == 0 {
		return model.SessionRecord{}, errors.Wrapf(ErrNotFound, "%q", id)
	}
	return fromItem(out.Item), nil
}

func toItem(rec model.SessionRecord) map[string]*dynamodb.AttributeValue {
	item := map[string]*dynamodb.AttributeValue{
		"PK":       {S: aws.String(rec.Id)},
		"Tempo":    {N: aws.String(strconv.Itoa(rec.Tempo))},
		"Tonic":    {S: aws.String(rec.Key.Tonic)},
		"Mode":     {S: aws.String(string(rec.Key.Mode))},
		"Drums":    {BOOL: aws.Bool(rec.Drums.Enabled)},
		"Outcome":  {S: aws.String(rec.Outcome)},
		"Started":  {S: aws.String(rec.Started.UTC().Format(time.RFC3339Nano))},
		"Finished": {S: aws.String(rec.Finished.UTC().Format(time.RFC3339Nano))},
	}
	// empty string sets are rejected by DynamoDB
	if len(rec.Symbols) > 0 {
		var symbols []*dynamodb.AttributeValue
		for _, s := range rec.Symbols {
			symbols = append(symbols, &dynamodb.AttributeValue{S: aws.String(s)})
		}
		item["Symbols"] = &dynamodb.AttributeValue{L: symbols}
	}
	if rec.Drums.Pattern != "" {
		item["Pattern"] = &dynamodb.AttributeValue{S: aws.String(rec.Drums.Pattern)}
	}
	if rec.Error != "" {
		item["Error"] = &dynamodb.AttributeValue{S: aws.String(rec.Error)}
	}
	return item
}

func str(v *dynamodb.AttributeValue) string {
	if v == nil || v.S == nil {
		return ""
	}
	return *v.S
}

func fromItem(item map[string]*dynamodb.AttributeValue) model.SessionRecord {
	var rec model.SessionRecord
	rec.Id = str(item["PK"])
	if v := item["Tempo"]; v != nil && v.N != nil {
		tempo, _ := strconv.Atoi(*v.N)
		rec.Tempo = tempo
	}
	rec.Key = model.Key{Tonic: str(item["Tonic"]), Mode: model.Mode(str(item["Mode"]))}
	if v := item["Drums"]; v != nil && v.BOOL != nil {
		rec.Drums.Enabled = *v.BOOL
	}
	rec.Drums.Pattern = str(item["Pattern"])
	if v := item["Symbols"]; v != nil {
		for _, s := range v.L {
			rec.Symbols = append(rec.Symbols, str(s))
		}
	}
	rec.Outcome = str(item["Outcome"])
	rec.Error = str(item["Error"])
	rec.Started, _ = time.Parse(time.RFC3339Nano, str(item["Started"]))
	rec.Finished, _ = time.Parse(time.RFC3339Nano, str(item["Finished"]))
	return rec
}
