// README: Candidate pool backed by Redis GEO.
package dispatch

import (
	"context"

	"github.com/redis/go-redis/v9"

	"ridehub/internal/types"
)

const driverGeoKey = "drivers:geo"

// RedisPool tracks available drivers' positions and answers nearby queries,
// sorted closest first by the GEO index.
type RedisPool struct {
	client *redis.Client
	radius float64
}

func NewRedisPool(client *redis.Client, radiusKm float64) *RedisPool {
	return &RedisPool{client: client, radius: radiusKm}
}

// SetAvailable registers or refreshes a driver's position.
func (p *RedisPool) SetAvailable(ctx context.Context, driverID types.ID, pos types.Point) error {
	return p.client.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

// SetUnavailable removes a driver from the pool.
func (p *RedisPool) SetUnavailable(ctx context.Context, driverID types.ID) error {
	return p.client.ZRem(ctx, driverGeoKey, string(driverID)).Err()
}

func (p *RedisPool) Nearby(ctx context.Context, pos types.Point, limit int) ([]types.ID, error) {
	names, err := p.client.GeoSearch(ctx, driverGeoKey, &redis.GeoSearchQuery{
		Longitude:  pos.Lng,
		Latitude:   pos.Lat,
		Radius:     p.radius,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      limit,
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, 0, len(names))
	for _, name := range names {
		ids = append(ids, types.ID(name))
	}
	return ids, nil
}
