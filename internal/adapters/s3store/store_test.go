package s3store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubS3 struct {
	objects map[string][]byte
	headErr error
	putErr  error
}

func newStubS3() *stubS3 {
	return &stubS3{objects: make(map[string][]byte)}
}

func (s *stubS3) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if s.headErr != nil {
		return nil, s.headErr
	}
	if _, ok := s.objects[*params.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (s *stubS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	payload, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	s.objects[*params.Key] = payload
	return &s3.PutObjectOutput{}, nil
}

type stubPresign struct {
	err error
}

func (p *stubPresign) PresignGetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &v4.PresignedHTTPRequest{
		URL:    "https://bucket.example/" + *params.Key + "?X-Amz-Signature=abc",
		Method: "GET",
	}, nil
}

func TestExists(t *testing.T) {
	client := newStubS3()
	client.objects["GCF_1/GCF_1.fna"] = []byte("fasta")
	store := NewWithClients(client, &stubPresign{}, "genomes")

	ok, err := store.Exists(context.Background(), "GCF_1/GCF_1.fna")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(context.Background(), "GCF_1/GCF_1.gff")
	require.NoError(t, err, "a missing object is a negative result, not an error")
	assert.False(t, ok)
}

func TestExistsPropagatesServiceError(t *testing.T) {
	client := newStubS3()
	client.headErr = errors.New("access denied")
	store := NewWithClients(client, &stubPresign{}, "genomes")

	_, err := store.Exists(context.Background(), "GCF_1/GCF_1.fna")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "head object")
}

func TestUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genome.fna")
	require.NoError(t, os.WriteFile(path, []byte(">chr1\nACGT\n"), 0o644))

	client := newStubS3()
	store := NewWithClients(client, &stubPresign{}, "genomes")

	require.NoError(t, store.Upload(context.Background(), "GCF_1/GCF_1.fna", path))
	assert.Equal(t, []byte(">chr1\nACGT\n"), client.objects["GCF_1/GCF_1.fna"])
}

func TestUploadMissingFile(t *testing.T) {
	store := NewWithClients(newStubS3(), &stubPresign{}, "genomes")
	err := store.Upload(context.Background(), "GCF_1/GCF_1.fna", "/nonexistent/genome.fna")
	require.Error(t, err)
}

func TestPresignGet(t *testing.T) {
	store := NewWithClients(newStubS3(), &stubPresign{}, "genomes")

	url, err := store.PresignGet(context.Background(), "GCF_1/GCF_1.gff", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "GCF_1/GCF_1.gff")
	assert.Contains(t, url, "X-Amz-Signature")
}
