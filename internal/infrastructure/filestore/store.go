// Package filestore implementa el modo de persistencia de archivo: un único
// documento JSON local, pensado para uso escritorio/offline sin dependencias
// externas. Cada operación lee y deserializa el documento completo; cada
// escritura lo reescribe entero con temp + rename atómico. Un mutex de
// proceso serializa las secuencias leer-modificar-escribir.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/pkg/logger"
)

// Store almacén de archivo JSON. Seguro para uso concurrente dentro del proceso.
type Store struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

// Open prepara el almacén. Si el archivo no existe se crea con el dataset
// semilla (primer arranque autorreparable). Si existe pero no se puede
// deserializar, se aparta como .corrupt-<timestamp> y se resiembra: el
// sistema prefiere arrancar con datos por defecto antes que negarse a operar,
// pero el archivo dañado se conserva y la condición queda en el log.
func Open(path string, log *logger.Logger) (*Store, error) {
	s := &Store{path: path, log: log}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.load()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Path ruta del documento JSON.
func (s *Store) Path() string { return s.path }

// load lee y deserializa el documento completo. Llamar con s.mu tomado.
func (s *Store) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.reseed("archivo inexistente, primer arranque")
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Documento ilegible: apartarlo y resembrar en vez de fallar.
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			return nil, fmt.Errorf("apartar archivo corrupto: %w", renameErr)
		}
		s.log.Warn().
			Str("archivo", s.path).
			Str("respaldo", backup).
			Err(err).
			Msg("documento de datos ilegible, se resiembra con valores por defecto")
		return s.reseed("documento corrupto apartado")
	}
	normalize(&doc)
	return &doc, nil
}

// reseed escribe el dataset semilla en disco y lo devuelve. Llamar con s.mu tomado.
func (s *Store) reseed(reason string) (*document, error) {
	doc, err := defaultDocument()
	if err != nil {
		return nil, err
	}
	if err := s.save(doc); err != nil {
		return nil, err
	}
	s.log.Info().Str("archivo", s.path).Str("motivo", reason).Msg("almacén de archivo sembrado")
	return doc, nil
}

// save serializa el documento y lo escribe a un archivo temporal del mismo
// directorio, luego rename: un lector concurrente nunca ve un JSON truncado.
// Llamar con s.mu tomado.
func (s *Store) save(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar documento: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".lubristock-*.tmp")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renombrar temporal: %w", err)
	}
	return nil
}

// view ejecuta fn con el documento actual, sin persistir cambios.
func (s *Store) view(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// update ejecuta fn con el documento actual y persiste si fn no falla.
// El ciclo leer-modificar-escribir completo ocurre bajo el mutex.
func (s *Store) update(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

// normalize garantiza que las colecciones nunca sean nil tras deserializar
// documentos parciales escritos a mano.
func normalize(doc *document) {
	if doc.Products == nil {
		doc.Products = []*entity.Product{}
	}
	if doc.Employees == nil {
		doc.Employees = []*entity.Employee{}
	}
	if doc.Orders == nil {
		doc.Orders = []*entity.Order{}
	}
	if doc.Sales == nil {
		doc.Sales = []*entity.Sale{}
	}
	if doc.InventoryMovements == nil {
		doc.InventoryMovements = []*entity.InventoryMovement{}
	}
}
