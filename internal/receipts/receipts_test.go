package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$40.00", FormatMoney(4000))
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "$0.05", FormatMoney(5))
	assert.Equal(t, "$18.99", FormatMoney(1899))
	assert.Equal(t, "-$2.50", FormatMoney(-250))
}

func TestFromVisit(t *testing.T) {
	v := &models.Visit{
		ID:          9,
		QueueNumber: 4,
		Patient:     &models.Patient{FullName: "Ali", Phone: "+998"},
		Service:     &models.Service{Name: "General consultation", Price: 4000},
		Payment:     &models.Payment{Amount: 4000, Status: "PAID"},
	}

	r := FromVisit(v, time.UTC)

	assert.Equal(t, "$40.00", r.Total)
	assert.Equal(t, "004", r.QueueLabel)
	assert.Equal(t, "Not assigned", r.DoctorName)
	assert.Equal(t, "PAID", r.PaymentStatus)
}

func TestFromVisit_NoPayment(t *testing.T) {
	r := FromVisit(&models.Visit{Patient: &models.Patient{}}, time.UTC)

	assert.Equal(t, "$0.00", r.Total)
	assert.Equal(t, "Clinic visit", r.Description)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestS3Archiver_Archive(t *testing.T) {
	client := new(mockS3)
	var body []byte
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "receipts-bucket" && *in.Key == "receipts/9.json"
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(*s3.PutObjectInput)
		body, _ = io.ReadAll(in.Body)
	}).Return(&s3.PutObjectOutput{}, nil)

	key, err := NewS3Archiver(client, "receipts-bucket").Archive(context.Background(), Receipt{VisitID: 9, Total: "$40.00"})
	require.NoError(t, err)
	assert.Equal(t, "receipts/9.json", key)

	var stored Receipt
	require.NoError(t, json.Unmarshal(body, &stored))
	assert.Equal(t, "$40.00", stored.Total)
	client.AssertExpectations(t)
}

func TestS3Archiver_Errors(t *testing.T) {
	var disabled *S3Archiver
	_, err := disabled.Archive(context.Background(), Receipt{})
	assert.ErrorIs(t, err, ErrArchiveDisabled)

	_, err = NewS3Archiver(new(mockS3), "").Archive(context.Background(), Receipt{})
	assert.ErrorIs(t, err, ErrArchiveDisabled)

	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))
	_, err = NewS3Archiver(client, "b").Archive(context.Background(), Receipt{VisitID: 1})
	assert.ErrorContains(t, err, "denied")
}

func TestWriteVisitsXLSX(t *testing.T) {
	visits := []models.Visit{
		{ID: 1, QueueNumber: 1, Status: "WAITING", Patient: &models.Patient{FullName: "A", Phone: "1"}},
		{ID: 2, QueueNumber: 2, Status: "COMPLETED", Patient: &models.Patient{FullName: "B", Phone: "2"},
			Payment: &models.Payment{Amount: 2500, Status: "PAID"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVisitsXLSX(&buf, visits, time.UTC))

	assert.True(t, buf.Len() > 0)
	assert.Equal(t, "PK", string(buf.Bytes()[:2]))
}
