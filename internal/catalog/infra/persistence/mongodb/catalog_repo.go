package mongodb

import (
	"context"
	"errors"

	"Coordinator/internal/catalog/domain"
	"Coordinator/internal/catalog/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	mapCollectionName   = "maps"
	coordCollectionName = "coordinates"
)

const (
	OpCreateMap        = "repo.catalog.mongodb.CreateMap"
	OpListMaps         = "repo.catalog.mongodb.ListMaps"
	OpGetMap           = "repo.catalog.mongodb.GetMap"
	OpUpdateMap        = "repo.catalog.mongodb.UpdateMap"
	OpDeleteMap        = "repo.catalog.mongodb.DeleteMap"
	OpCountMaps        = "repo.catalog.mongodb.CountMaps"
	OpAddCoordinate    = "repo.catalog.mongodb.AddCoordinate"
	OpListCoordinates  = "repo.catalog.mongodb.ListCoordinates"
	OpUpdateCoordinate = "repo.catalog.mongodb.UpdateCoordinate"
	OpDeleteCoordinate = "repo.catalog.mongodb.DeleteCoordinate"
)

// IDGenerator 文档主键生成（snowflake）。
type IDGenerator func() int64

// CatalogRepo MongoDB 实现。单机部署没有多文档事务，删除地图时先删坐标再删地图。
type CatalogRepo struct {
	client *mongo.Client
	maps   *mongo.Collection
	coords *mongo.Collection
	nextID IDGenerator
}

func NewCatalogRepo(client *mongo.Client, database string, nextID IDGenerator) *CatalogRepo {
	db := client.Database(database)
	return &CatalogRepo{
		client: client,
		maps:   db.Collection(mapCollectionName),
		coords: db.Collection(coordCollectionName),
		nextID: nextID,
	}
}

// EnsureIndexes 坐标按 mapid + created_at 倒序查询。
func (r *CatalogRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coords.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "mapid", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	return err
}

func (r *CatalogRepo) CreateMap(ctx context.Context, m *domain.Map) (int64, error) {
	doc := model.MapDoc{ID: r.nextID(), Name: m.Name, Version: m.Version, CreatedAt: m.CreatedAt}
	if _, err := r.maps.InsertOne(ctx, doc); err != nil {
		return 0, domain.Unavailable(OpCreateMap, err, map[string]any{"name": m.Name})
	}
	return doc.ID, nil
}

func (r *CatalogRepo) ListMaps(ctx context.Context) ([]*domain.Map, error) {
	cur, err := r.maps.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, domain.Unavailable(OpListMaps, err, nil)
	}
	var docs []model.MapDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable(OpListMaps, err, nil)
	}
	out := make([]*domain.Map, 0, len(docs))
	for i := range docs {
		out = append(out, model.MapDocToDomain(&docs[i]))
	}
	return out, nil
}

func (r *CatalogRepo) GetMap(ctx context.Context, id int64) (*domain.Map, error) {
	var doc model.MapDoc
	err := r.maps.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	switch {
	case err == nil:
		return model.MapDocToDomain(&doc), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrMapNotFound
	default:
		return nil, domain.Unavailable(OpGetMap, err, map[string]any{"map_id": id})
	}
}

func (r *CatalogRepo) UpdateMap(ctx context.Context, m *domain.Map) error {
	res, err := r.maps.UpdateOne(ctx, bson.M{"_id": m.ID},
		bson.M{"$set": bson.M{"name": m.Name, "version": m.Version}})
	if err != nil {
		return domain.Unavailable(OpUpdateMap, err, map[string]any{"map_id": m.ID})
	}
	if res.MatchedCount == 0 {
		return domain.ErrMapNotFound
	}
	return nil
}

func (r *CatalogRepo) DeleteMap(ctx context.Context, id int64) error {
	if _, err := r.GetMap(ctx, id); err != nil {
		return err
	}
	if _, err := r.coords.DeleteMany(ctx, bson.M{"mapid": id}); err != nil {
		return domain.Unavailable(OpDeleteMap, err, map[string]any{"map_id": id})
	}
	res, err := r.maps.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return domain.Unavailable(OpDeleteMap, err, map[string]any{"map_id": id})
	}
	if res.DeletedCount == 0 {
		return domain.ErrMapNotFound
	}
	return nil
}

func (r *CatalogRepo) CountMaps(ctx context.Context) (int64, error) {
	n, err := r.maps.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, domain.Unavailable(OpCountMaps, err, nil)
	}
	return n, nil
}

func (r *CatalogRepo) AddCoordinate(ctx context.Context, c *domain.Coordinate) (int64, error) {
	if _, err := r.GetMap(ctx, c.MapID); err != nil {
		return 0, err
	}
	doc := model.CoordinateDoc{
		ID: r.nextID(), MapID: c.MapID, Name: c.Name,
		XValue: c.X, YValue: c.Y, ZValue: c.Z,
		CreatedAt: c.CreatedAt,
	}
	if _, err := r.coords.InsertOne(ctx, doc); err != nil {
		return 0, domain.Unavailable(OpAddCoordinate, err, map[string]any{"map_id": c.MapID})
	}
	return doc.ID, nil
}

func (r *CatalogRepo) ListCoordinates(ctx context.Context, mapID int64) ([]*domain.Coordinate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coords.Find(ctx, bson.M{"mapid": mapID}, opts)
	if err != nil {
		return nil, domain.Unavailable(OpListCoordinates, err, map[string]any{"map_id": mapID})
	}
	var docs []model.CoordinateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable(OpListCoordinates, err, map[string]any{"map_id": mapID})
	}
	out := make([]*domain.Coordinate, 0, len(docs))
	for i := range docs {
		out = append(out, model.CoordinateDocToDomain(&docs[i]))
	}
	return out, nil
}

func (r *CatalogRepo) UpdateCoordinate(ctx context.Context, c *domain.Coordinate) error {
	res, err := r.coords.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"name": c.Name, "xvalue": c.X, "yvalue": c.Y, "zvalue": c.Z,
	}})
	if err != nil {
		return domain.Unavailable(OpUpdateCoordinate, err, map[string]any{"coord_id": c.ID})
	}
	if res.MatchedCount == 0 {
		return domain.ErrCoordinateNotFound
	}
	return nil
}

func (r *CatalogRepo) DeleteCoordinate(ctx context.Context, id int64) error {
	res, err := r.coords.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return domain.Unavailable(OpDeleteCoordinate, err, map[string]any{"coord_id": id})
	}
	if res.DeletedCount == 0 {
		return domain.ErrCoordinateNotFound
	}
	return nil
}

func (r *CatalogRepo) Close() error {
	return r.client.Disconnect(context.Background())
}
