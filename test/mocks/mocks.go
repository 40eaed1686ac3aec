// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// Regenerate with `go generate ./test/mocks`.
package mocks

//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/catalog_repository.go -destination=catalog_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/catalog_service.go -destination=catalog_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/database.go -destination=database_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/ledger_repository.go -destination=ledger_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/reporting_service.go -destination=reporting_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/stock_service.go -destination=stock_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/storage.go -destination=storage_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/unit_of_work.go -destination=unit_of_work_mock.go -package=mocks
//go:generate mockgen -source=../../internal/workers/tasks.go -destination=task_enqueuer_mock.go -package=mocks
