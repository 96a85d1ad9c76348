package catalog

import (
	"sync"
	"time"

	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

// stateCache valor explícito {data, fetchedAt}: la expiración es una función
// pura del reloj, así los tests pueden inyectar el tiempo.
type stateCache struct {
	states    []*entity.ItemState
	byCode    map[string]*entity.ItemState
	byID      map[string]*entity.ItemState
	fetchedAt time.Time
}

func (c stateCache) isExpired(now time.Time, ttl time.Duration) bool {
	return c.fetchedAt.IsZero() || now.Sub(c.fetchedAt) >= ttl
}

// StateService catálogo de estados de ítems con cache en memoria.
//
// El cache se refresca bajo demanda (no hay timer de fondo) y los refresh
// concurrentes son idempotentes: gana el último escritor. Un código recién
// agregado puede ser invisible hasta por un TTL; esa staleness es aceptada.
type StateService struct {
	repo  repository.ItemStateRepository
	ttl   time.Duration
	clock func() time.Time

	mu    sync.RWMutex
	cache stateCache
}

// NewStateService construye el servicio con el TTL dado.
func NewStateService(repo repository.ItemStateRepository, ttl time.Duration) *StateService {
	return &StateService{repo: repo, ttl: ttl, clock: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *StateService) WithClock(clock func() time.Time) *StateService {
	s.clock = clock
	return s
}

// States devuelve el catálogo completo, del cache si sigue vigente.
func (s *StateService) States() ([]*entity.ItemState, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.states, nil
}

// ByCode resuelve un estado por código, o ErrNotFound.
func (s *StateService) ByCode(code string) (*entity.ItemState, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	if st, ok := c.byCode[code]; ok {
		return st, nil
	}
	return nil, domain.ErrNotFound
}

// ByID resuelve un estado por id, o ErrNotFound.
func (s *StateService) ByID(id string) (*entity.ItemState, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	if st, ok := c.byID[id]; ok {
		return st, nil
	}
	return nil, domain.ErrNotFound
}

// Invalidate descarta el cache (tests, o tras modificar el catálogo).
func (s *StateService) Invalidate() {
	s.mu.Lock()
	s.cache = stateCache{}
	s.mu.Unlock()
}

func (s *StateService) current() (stateCache, error) {
	now := s.clock()

	s.mu.RLock()
	c := s.cache
	s.mu.RUnlock()
	if !c.isExpired(now, s.ttl) {
		return c, nil
	}

	states, err := s.repo.List()
	if err != nil {
		// Con cache vencido pero poblado, servir lo viejo antes que fallar.
		if c.fetchedAt.IsZero() {
			return stateCache{}, err
		}
		return c, nil
	}

	fresh := stateCache{
		states:    states,
		byCode:    make(map[string]*entity.ItemState, len(states)),
		byID:      make(map[string]*entity.ItemState, len(states)),
		fetchedAt: now,
	}
	for _, st := range states {
		fresh.byCode[st.Code] = st
		fresh.byID[st.ID] = st
	}

	// Último escritor gana: si otro goroutine refrescó en paralelo, ambos
	// resultados son equivalentes dentro del TTL.
	s.mu.Lock()
	s.cache = fresh
	s.mu.Unlock()

	return fresh, nil
}
