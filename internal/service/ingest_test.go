package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCSV(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	svc, _ := newTestService(t)
	_, err := svc.AddSubject(ctx, "Coffee", 5, true)
	require.NoError(t, err)

	data := strings.Join([]string{
		"subject,value",
		"Coffee,4.5",
		"Tea,7",
		"Cake,abc",
		"lonely",
		",3",
	}, "\n")

	ingest := &IngestService{Ratings: svc}
	res, err := ingest.ImportCSV(ctx, strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Clamped)
	require.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[0].Error(), "line 4 value")
	assert.Contains(t, res.Errors[1].Error(), "line 5")
	assert.ErrorIs(t, res.Errors[2], ErrEmptySubject)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 4.5, list[0].Value)
	assert.Equal(t, "Tea", list[1].Subject.Name)
	assert.Equal(t, 5.0, list[1].Value)
}
