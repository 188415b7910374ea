package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// BlobCache stores entries as blobs in a single container.
type BlobCache struct {
	client    *azblob.Client
	container string
}

var _ ListCache = (*BlobCache)(nil)

func NewBlobCache(container string) (*BlobCache, error) {
	accountName, ok := os.LookupEnv("AZURE_STORAGE_ACCOUNT_NAME")
	if !ok {
		return nil, fmt.Errorf("AZURE_STORAGE_ACCOUNT_NAME could not be found")
	}

	accountKey, ok := os.LookupEnv("AZURE_STORAGE_PRIMARY_ACCOUNT_KEY")
	if !ok {
		return nil, fmt.Errorf("AZURE_STORAGE_PRIMARY_ACCOUNT_KEY could not be found")
	}

	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(fmt.Sprintf("https://%s.blob.core.windows.net/", accountName), cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobCache{
		client:    client,
		container: container,
	}, nil
}

func (bc *BlobCache) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	stream, err := bc.client.DownloadStream(ctx, bc.container, key, &azblob.DownloadStreamOptions{})
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		slog.ErrorContext(ctx, "failed to download blob", "key", key, "error", err)
		return nil, err
	}
	return stream.Body, nil
}

func (bc *BlobCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := bc.client.ServiceClient().NewContainerClient(bc.container).NewBlobClient(key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Put is check-then-upload for IfNoneMatch; blob storage has no transactions
// and the single-owner access pattern tolerates the race.
func (bc *BlobCache) Put(ctx context.Context, key, value string, opts PutOptions) error {
	if opts.Condition == PutIfNoneMatch {
		exists, err := bc.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyExists
		}
	}
	_, err := bc.client.UploadStream(ctx, bc.container, key, strings.NewReader(value), &azblob.UploadStreamOptions{})
	return err
}

func (bc *BlobCache) Delete(ctx context.Context, key string) error {
	_, err := bc.client.DeleteBlob(ctx, bc.container, key, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil
	}
	return err
}

func (bc *BlobCache) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	pager := bc.client.NewListBlobsFlatPager(bc.container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get next page of blobs: %w", err)
		}
		for _, blob := range page.Segment.BlobItems {
			keys = append(keys, strings.TrimPrefix(*blob.Name, prefix))
		}
	}

	return keys, nil
}
