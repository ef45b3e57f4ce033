// Package rediscache persiste el carrito en borrador en Redis: el borrador
// sobrevive reinicios del proceso y sesiones nuevas del mismo usuario.
package rediscache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/cart"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

// CartStore guarda un carrito por usuario bajo la clave cart:<userID>,
// serializado como JSON. Sin TTL: el borrador dura hasta confirmarse o
// vaciarse.
type CartStore struct {
	client *redis.Client
}

var _ cart.Store = (*CartStore)(nil)

// NewCartStore crea el store sobre un cliente Redis ya configurado.
func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

// NewClient crea el cliente Redis con las opciones dadas.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func cartKey(userID string) string { return "cart:" + userID }

// Load lee el carrito del usuario. Clave ausente o payload corrupto se
// resuelven como carrito vacío: perder un borrador es preferible a bloquear
// la venta. Solo un Redis inalcanzable devuelve error.
func (s *CartStore) Load(ctx context.Context, userID string) (*entity.Cart, error) {
	val, err := s.client.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return &entity.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var c entity.Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return &entity.Cart{}, nil
	}
	return &c, nil
}

// Save reemplaza el carrito completo del usuario.
func (s *CartStore) Save(ctx context.Context, userID string, c *entity.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(userID), data, 0).Err()
}

// Ping verifica la conexión al arrancar.
func (s *CartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close libera el cliente.
func (s *CartStore) Close() error {
	return s.client.Close()
}
