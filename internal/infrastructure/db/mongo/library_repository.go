package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/musemind/musemind-server/internal/core/domain"
)

const (
	tracksCollection = "saved_tracks"
	lyricsCollection = "saved_lyrics"
)

// LibraryRepository implements ports.LibraryRepository on MongoDB. Each user
// owns at most one document per collection holding the whole list.
type LibraryRepository struct {
	tracks *mongo.Collection
	lyrics *mongo.Collection
}

func NewLibraryRepository(db *mongo.Database) *LibraryRepository {
	return &LibraryRepository{
		tracks: db.Collection(tracksCollection),
		lyrics: db.Collection(lyricsCollection),
	}
}

type trackListDoc struct {
	User        string              `bson:"user"`
	SavedTracks []domain.SavedTrack `bson:"saved_tracks"`
}

type lyricListDoc struct {
	User   string              `bson:"user"`
	Lyrics []domain.SavedLyric `bson:"lyrics"`
}

// SaveTrack prepends the track when its id is not already present. The write
// runs in two steps: an upsert guarantees the list document exists, then a
// guarded $push applies only when no entry carries the same id.
func (r *LibraryRepository) SaveTrack(ctx context.Context, userID string, track domain.SavedTrack) ([]domain.SavedTrack, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.tracks.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$setOnInsert": bson.M{"saved_tracks": bson.A{}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure track list: %w", err)
	}

	filter := bson.M{"user": userID, "saved_tracks.id": bson.M{"$ne": track.ID}}
	push := bson.M{"$push": bson.M{"saved_tracks": bson.M{"$each": bson.A{track}, "$position": 0}}}
	if _, err := r.tracks.UpdateOne(ctx, filter, push); err != nil {
		return nil, fmt.Errorf("save track: %w", err)
	}

	return r.ListTracks(ctx, userID)
}

func (r *LibraryRepository) ListTracks(ctx context.Context, userID string) ([]domain.SavedTrack, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc trackListDoc
	if err := r.tracks.FindOne(ctx, bson.M{"user": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.SavedTrack{}, nil
		}
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	if doc.SavedTracks == nil {
		return []domain.SavedTrack{}, nil
	}
	return doc.SavedTracks, nil
}

// RemoveTrack pulls the entry by id; removing an absent id is a no-op that
// still returns the current list.
func (r *LibraryRepository) RemoveTrack(ctx context.Context, userID, trackID string) ([]domain.SavedTrack, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"saved_tracks": bson.M{"id": trackID}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc trackListDoc
	if err := r.tracks.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.SavedTrack{}, nil
		}
		return nil, fmt.Errorf("remove track: %w", err)
	}
	if doc.SavedTracks == nil {
		return []domain.SavedTrack{}, nil
	}
	return doc.SavedTracks, nil
}

func (r *LibraryRepository) SaveLyric(ctx context.Context, userID string, lyric domain.SavedLyric) ([]domain.SavedLyric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.lyrics.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$setOnInsert": bson.M{"lyrics": bson.A{}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure lyric list: %w", err)
	}

	filter := bson.M{"user": userID, "lyrics.id": bson.M{"$ne": lyric.ID}}
	push := bson.M{"$push": bson.M{"lyrics": bson.M{"$each": bson.A{lyric}, "$position": 0}}}
	if _, err := r.lyrics.UpdateOne(ctx, filter, push); err != nil {
		return nil, fmt.Errorf("save lyric: %w", err)
	}

	return r.ListLyrics(ctx, userID)
}

func (r *LibraryRepository) ListLyrics(ctx context.Context, userID string) ([]domain.SavedLyric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc lyricListDoc
	if err := r.lyrics.FindOne(ctx, bson.M{"user": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.SavedLyric{}, nil
		}
		return nil, fmt.Errorf("list lyrics: %w", err)
	}
	if doc.Lyrics == nil {
		return []domain.SavedLyric{}, nil
	}
	return doc.Lyrics, nil
}

func (r *LibraryRepository) RemoveLyric(ctx context.Context, userID, lyricID string) ([]domain.SavedLyric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"lyrics": bson.M{"id": lyricID}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc lyricListDoc
	if err := r.lyrics.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.SavedLyric{}, nil
		}
		return nil, fmt.Errorf("remove lyric: %w", err)
	}
	if doc.Lyrics == nil {
		return []domain.SavedLyric{}, nil
	}
	return doc.Lyrics, nil
}

// EnsureIndexes creates the unique per-user index on both list collections.
func (r *LibraryRepository) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.tracks.Indexes().CreateOne(ctx, idx); err != nil {
		return err
	}
	_, err := r.lyrics.Indexes().CreateOne(ctx, idx)
	return err
}
