package service

import "sync"

// KeyLock serializa secciones críticas por clave (email en el registro,
// bookId en la actualización de estadísticas). El store remoto no ofrece
// escrituras condicionales, así que el read-modify-write se protege aquí,
// dentro del proceso. Despliegues con varias instancias siguen expuestos a
// la carrera, igual que el sistema original.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyEntry
}

type keyEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyLock construye un KeyLock vacío.
func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyEntry)}
}

// Lock adquiere el mutex de la clave, creándolo si no existe.
func (k *KeyLock) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock libera el mutex de la clave y la limpia cuando nadie más la espera.
func (k *KeyLock) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
