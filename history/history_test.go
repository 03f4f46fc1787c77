package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/chordplay/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() model.SessionRecord {
	return model.SessionRecord{
		Id:       "3f1c",
		Symbols:  []string{"I", "V", "vi#", "IV"},
		Tempo:    96,
		Key:      model.Key{Tonic: "Eb", Mode: model.Minor},
		Drums:    model.DrumSettings{Enabled: true, Pattern: "rock"},
		Outcome:  "failed",
		Error:    "synthesizer process died",
		Started:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Finished: time.Date(2024, 3, 1, 12, 0, 9, 500, time.UTC),
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	rec := sampleRecord()
	require.NoError(t, m.Record(ctx, rec))
	got, err := m.Get(ctx, rec.Id)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	assert.Error(t, m.Record(ctx, model.SessionRecord{}))
}

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	table string
}

func (f *fakeDynamo) PutItemWithContext(ctx aws.Context, in *dynamodb.PutItemInput, opts ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.table = *in.TableName
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItemWithContext(ctx aws.Context, in *dynamodb.GetItemInput, opts ...request.Option) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func TestDynamoRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
	d := NewDynamo(fake, "sessions")

	rec := sampleRecord()
	require.NoError(t, d.Record(ctx, rec))
	assert.Equal(t, "sessions", fake.table)
	assert.Equal(t, "96", *fake.items[rec.Id]["Tempo"].N)

	got, err := d.Get(ctx, rec.Id)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = d.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDynamoOmitsEmptyAttributes(t *testing.T) {
	item := toItem(model.SessionRecord{Id: "a", Outcome: "completed"})
	assert.NotContains(t, item, "Symbols")
	assert.NotContains(t, item, "Error")
	assert.NotContains(t, item, "Pattern")
}
