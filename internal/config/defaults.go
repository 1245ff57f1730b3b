package config

const defaultStubPort = 8081

var defaultGateways = Gateways{
	AuthURL:   "http://localhost:8081/auth",
	OrdersURL: "http://localhost:8081/orders",
}

var defaultStub = Stub{
	Port:           defaultStubPort,
	RateLimitRPS:   0,
	RateLimitBurst: 5,
}

// DefaultGateways returns the default remote service URLs, pointing at a
// locally running dev stub.
func DefaultGateways() Gateways {
	return defaultGateways
}

// DefaultStub returns the default dev stub settings.
func DefaultStub() Stub {
	return defaultStub
}
