package modscan

// Scanner enumerates the modules visible in an environment and calls visit
// for each one, in discovery order.
type Scanner interface {
	Scan(env *Environment, visit func(Module)) error
}

// ScannerFunc adapts a function to Scanner.
type ScannerFunc func(env *Environment, visit func(Module)) error

func (f ScannerFunc) Scan(env *Environment, visit func(Module)) error { return f(env, visit) }

// DirScanner reads the manifests in the environment's module directories.
type DirScanner struct{}

func (DirScanner) Scan(env *Environment, visit func(Module)) error {
	for _, dir := range env.ModuleDirs() {
		manifests, err := LoadManifests(dir)
		if err != nil {
			return err
		}
		for _, m := range manifests {
			visit(m.Module())
		}
	}
	return nil
}

// StaticScanner visits the environment's in-memory modules.
type StaticScanner struct{}

func (StaticScanner) Scan(env *Environment, visit func(Module)) error {
	for _, m := range env.Modules() {
		visit(m)
	}
	return nil
}

// Combine runs scanners in order and stops at the first error.
func Combine(scanners ...Scanner) Scanner {
	return ScannerFunc(func(env *Environment, visit func(Module)) error {
		for _, s := range scanners {
			if err := s.Scan(env, visit); err != nil {
				return err
			}
		}
		return nil
	})
}

// Default scans in-memory modules first, then manifest directories.
func Default() Scanner {
	return Combine(StaticScanner{}, DirScanner{})
}
