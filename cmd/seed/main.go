// seed prepara el almacén remoto: crea el esquema si no existe y carga el
// dataset inicial (cuentas por defecto y catálogo de lubricantes). Es
// idempotente: los códigos ya presentes se saltan.
//
// Uso: go run ./cmd/seed  (requiere DATABASE_URL o credenciales Supabase)
package main

import (
	"context"
	"time"

	"github.com/andresvp/lubristock-api/internal/infrastructure/filestore"
	"github.com/andresvp/lubristock-api/internal/infrastructure/postgres"
	"github.com/andresvp/lubristock-api/pkg/config"
	"github.com/andresvp/lubristock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	if !cfg.DB.HasRemoteCredentials() {
		log.Fatal().Msg("el seeder requiere credenciales remotas (DATABASE_URL o SUPABASE_URL + SUPABASE_SERVICE_KEY)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema")
	}
	log.Info().Msg("esquema verificado")

	employees, products, err := filestore.SeedDataset()
	if err != nil {
		log.Fatal().Err(err).Msg("construir dataset semilla")
	}

	employeeRepo := postgres.NewEmployeeRepository(pool)
	created := 0
	for _, e := range employees {
		existing, err := employeeRepo.GetByCode(e.Code)
		if err != nil {
			log.Fatal().Err(err).Str("code", e.Code).Msg("consultar empleado")
		}
		if existing != nil {
			log.Info().Str("code", e.Code).Msg("empleado ya existe, se salta")
			continue
		}
		if err := employeeRepo.Create(e); err != nil {
			log.Fatal().Err(err).Str("code", e.Code).Msg("crear empleado")
		}
		created++
	}
	log.Info().Int("created", created).Msg("empleados sembrados")

	productRepo := postgres.NewProductRepository(pool)
	created = 0
	for _, p := range products {
		existing, err := productRepo.GetByCode(p.Code)
		if err != nil {
			log.Fatal().Err(err).Str("code", p.Code).Msg("consultar producto")
		}
		if existing != nil {
			log.Info().Str("code", p.Code).Msg("producto ya existe, se salta")
			continue
		}
		if err := productRepo.Create(p); err != nil {
			log.Fatal().Err(err).Str("code", p.Code).Msg("crear producto")
		}
		created++
	}
	log.Info().Int("created", created).Msg("productos sembrados")

	log.Info().Msg("seed completado")
}
