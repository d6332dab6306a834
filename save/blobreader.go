package save

import (
	"context"
	"fmt"
	"io"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/Outspending/go-ferrumc/region"
)

// ObjectReader is the slice of the blob store client the save readers need.
type ObjectReader interface {
	Reader(
		ctx context.Context,
		identity string,
		opts ...azblob.Option,
	) (*azblob.ReaderResponse, error)
}

// BlobRead reads the complete object at identity and returns the store
// response as the most consistent way to propagate the object metadata to
// the caller. On return, regardless of error, the response reader has been
// exhausted or otherwise disposed of.
func BlobRead(
	ctx context.Context, identity string, store ObjectReader, opts ...azblob.Option,
) (*azblob.ReaderResponse, []byte, error) {
	rr, err := store.Reader(ctx, identity, opts...)
	if err != nil {
		return nil, nil, err
	}
	defer rr.Reader.Close()
	data, err := io.ReadAll(rr.Reader)
	if err != nil {
		return nil, nil, err
	}
	return rr, data, nil
}

// BlobReader reads world save objects from a blob hosted replica. The replica
// stores the same payload bytes as the local files, under a worldPrefix/
// level.dat, worldPrefix/playerdata/..., worldPrefix/region/... path schema
// that matches the local directory layout.
type BlobReader struct {
	log         logger.Logger
	store       ObjectReader
	worldPrefix string
	opts        Options
}

func NewBlobReader(log logger.Logger, store ObjectReader, worldPrefix string, opts ...Option) (BlobReader, error) {
	if store == nil {
		return BlobReader{}, ErrStoreNotProvided
	}
	r := BlobReader{
		log:         log,
		store:       store,
		worldPrefix: worldPrefix,
	}
	for _, o := range opts {
		o(&r.opts)
	}
	return r, nil
}

func (r *BlobReader) path(parts ...string) string {
	p := r.worldPrefix
	for _, part := range parts {
		p = p + "/" + part
	}
	return p
}

// ReadLevel reads and parses the replica's level.dat object.
func (r *BlobReader) ReadLevel(ctx context.Context) (*Level, error) {
	identity := r.path("level.dat")
	_, data, err := BlobRead(ctx, identity, r.store)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrObjectNotFound, identity, err)
	}
	r.log.Debugf("read %d bytes from %s", len(data), identity)
	level, err := ParseLevel(data, r.opts.parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", identity, err)
	}
	return level, nil
}

// ReadPlayer reads and parses the replica's playerdata object for id. The id
// is the canonical lower case uuid string, matching the local file names.
func (r *BlobReader) ReadPlayer(ctx context.Context, id string) (*Player, error) {
	identity := r.path("playerdata", id+".dat")
	_, data, err := BlobRead(ctx, identity, r.store)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrObjectNotFound, identity, err)
	}
	p, err := ParsePlayer(data, r.opts.parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", identity, err)
	}
	return p, nil
}

// ReadRegion reads the replica's region object at region coordinates rx, rz.
func (r *BlobReader) ReadRegion(ctx context.Context, rx, rz int) (*region.Region, error) {
	identity := r.path("region", fmt.Sprintf("r.%d.%d.mca", rx, rz))
	_, data, err := BlobRead(ctx, identity, r.store)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrObjectNotFound, identity, err)
	}
	r.log.Debugf("read %d bytes from %s", len(data), identity)
	reg, err := region.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", identity, err)
	}
	return reg, nil
}
