// Package confirm implementa la confirmación en dos pasos para acciones
// administrativas destructivas. La primera invocación devuelve un resultado
// "requiere confirmación" con un token de un solo uso; el caller reinvoca la
// misma operación con ese token para ejecutarla.
package confirm

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pending es el resultado tipado de una operación pendiente de confirmación.
type Pending struct {
	Token     string
	ExpiresIn time.Duration
}

type entry struct {
	action  string
	subject string
	expires time.Time
}

// Gate emite y canjea tokens de confirmación. Los tokens expiran tras el TTL
// y son de un solo uso; el canje exige la misma acción y sujeto que el pedido.
type Gate struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]entry
}

// NewGate construye el gate con el TTL dado.
func NewGate(ttl time.Duration) *Gate {
	return &Gate{
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[string]entry),
	}
}

// Request registra una operación pendiente y devuelve su token.
func (g *Gate) Request(action, subject string) Pending {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.purgeLocked()

	token := uuid.New().String()
	g.pending[token] = entry{
		action:  action,
		subject: subject,
		expires: g.now().Add(g.ttl),
	}
	return Pending{Token: token, ExpiresIn: g.ttl}
}

// Redeem consume el token. Devuelve true solo si existe, no expiró y coincide
// con la acción y el sujeto originales; en todos los casos el token queda
// inutilizable después de la llamada.
func (g *Gate) Redeem(token, action, subject string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.pending[token]
	if !ok {
		return false
	}
	delete(g.pending, token)
	if g.now().After(e.expires) {
		return false
	}
	return e.action == action && e.subject == subject
}

// purgeLocked elimina tokens vencidos. Llamar con g.mu tomado.
func (g *Gate) purgeLocked() {
	now := g.now()
	for tok, e := range g.pending {
		if now.After(e.expires) {
			delete(g.pending, tok)
		}
	}
}
