package mocks

//go:generate mockgen -destination=./mock_gateway.go -package=mocks github.com/rxtech-lab/argo-oms/internal/gateway Gateway,EngineCallbacks
//go:generate mockgen -destination=./mock_risk.go -package=mocks github.com/rxtech-lab/argo-oms/internal/risk Rule,OrderView
//go:generate mockgen -destination=./mock_bus.go -package=mocks github.com/rxtech-lab/argo-oms/internal/bus Bus
//go:generate mockgen -destination=./mock_store.go -package=mocks github.com/rxtech-lab/argo-oms/internal/store Store
