package store

import (
	"bytes"
	"cmp"
	"context"
	"encoding/binary"
	"encoding/gob"
	"slices"
	"time"

	"go.etcd.io/bbolt"

	"memories/models"
)

// NewBolt stores each kind in a bucket named after its table. Keys are big-endian
// ids from the bucket sequence; values are gob-encoded records.
func NewBolt(db *bbolt.DB) *Store {
	places := &boltRepo[models.Place, *models.Place, models.PlacePatch]{db: db, bucket: []byte(models.Place{}.TableName())}
	ideas := &boltRepo[models.TravelIdea, *models.TravelIdea, models.TravelIdeaPatch]{db: db, bucket: []byte(models.TravelIdea{}.TableName())}
	goals := &boltRepo[models.FinancialGoal, *models.FinancialGoal, models.FinancialGoalPatch]{db: db, bucket: []byte(models.FinancialGoal{}.TableName())}
	return &Store{
		Places:         places,
		TravelIdeas:    ideas,
		FinancialGoals: goals,
		driver:         "bolt",
		migrate: func() error {
			return db.Update(func(tx *bbolt.Tx) error {
				for _, name := range [][]byte{places.bucket, ideas.bucket, goals.bucket} {
					if _, err := tx.CreateBucketIfNotExists(name); err != nil {
						return err
					}
				}
				return nil
			})
		},
		close: db.Close,
	}
}

type boltRepo[T any, PT models.Entity[T], P models.Patch[T]] struct {
	db     *bbolt.DB
	bucket []byte
}

func (r *boltRepo[T, PT, P]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var rec T
			if err := decode(v, &rec); err != nil {
				return err
			}
			items = append(items, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(items, func(a, b T) int {
		pa, pb := PT(&a), PT(&b)
		if c := pb.Created().Compare(pa.Created()); c != 0 {
			return c
		}
		return cmp.Compare(pb.Key(), pa.Key())
	})
	return items, nil
}

func (r *boltRepo[T, PT, P]) Get(ctx context.Context, id uint) (T, error) {
	var rec T
	err := r.db.View(func(tx *bbolt.Tx) error {
		return r.load(tx, id, &rec)
	})
	return rec, err
}

func (r *boltRepo[T, PT, P]) Create(ctx context.Context, p P) (T, error) {
	var rec T
	if err := p.Validate(true); err != nil {
		return rec, err
	}
	p.Apply(&rec)
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(r.bucket)
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		PT(&rec).Stamp(uint(seq), time.Now())
		return r.put(b, &rec)
	})
	return rec, err
}

func (r *boltRepo[T, PT, P]) Update(ctx context.Context, id uint, p P) (T, error) {
	var rec T
	if err := p.Validate(false); err != nil {
		return rec, err
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		if err := r.load(tx, id, &rec); err != nil {
			return err
		}
		if len(p.Columns()) == 0 {
			return nil
		}
		p.Apply(&rec)
		PT(&rec).Touch(time.Now())
		return r.put(tx.Bucket(r.bucket), &rec)
	})
	return rec, err
}

func (r *boltRepo[T, PT, P]) Delete(ctx context.Context, id uint) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return nil
		}
		return b.Delete(itob(id))
	})
}

func (r *boltRepo[T, PT, P]) DeleteAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return nil
		}
		n = int64(b.Stats().KeyN)
		if err := tx.DeleteBucket(r.bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(r.bucket)
		return err
	})
	return n, err
}

func (r *boltRepo[T, PT, P]) load(tx *bbolt.Tx, id uint, rec *T) error {
	b := tx.Bucket(r.bucket)
	if b == nil {
		return ErrNotFound
	}
	data := b.Get(itob(id))
	if data == nil {
		return ErrNotFound
	}
	return decode(data, rec)
}

func (r *boltRepo[T, PT, P]) put(b *bbolt.Bucket, rec *T) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	return b.Put(itob(PT(rec).Key()), data)
}

func itob(id uint) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(v)
	return buf.Bytes(), err
}

func decode(data []byte, target any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
