package appcontext

const (
	EnvServer Env = iota
	EnvWorker
	EnvCLI
)

// Env is the kind of process the fx graph is assembled for. Workers are
// started for every Env except EnvCLI.
type Env int

func (e Env) String() string {
	switch e {
	case EnvServer:
		return "server"
	case EnvWorker:
		return "worker"
	case EnvCLI:
		return "cli"
	}
	return "unknown"
}

type Ctx struct {
	Env Env
}

func Declare(env Env) Ctx {
	return Ctx{
		Env: env,
	}
}
