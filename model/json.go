package model

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON/UnmarshalJSON on the enum types below let a Workspace be
// declared in JSON with readable string tokens ("console-app", "c++17
// optimize=speed") rather than raw integers, matching the toolchain
// registry's own JSON schema (spec.md §6 "A JSON file... with the same
// schema as §3's Toolchain"). Grounded in the teacher's own
// string-valued Blueprint property enums (android/arch.go's ArchType
// marshals the same way for its JSON-emitting tools).

func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "console-app":
		*k = ConsoleApp
	case "windowed-app":
		*k = WindowedApp
	case "static-lib":
		*k = StaticLib
	case "shared-lib":
		*k = SharedLib
	case "test-suite":
		*k = TestSuite
	default:
		return fmt.Errorf("model: unknown project kind %q", s)
	}
	return nil
}

func (l Language) MarshalJSON() ([]byte, error) { return json.Marshal(l.String()) }

func (l *Language) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "c":
		*l = LangC
	case "c++":
		*l = LangCxx
	case "objc":
		*l = LangObjC
	case "objc++":
		*l = LangObjCxx
	case "asm":
		*l = LangAsm
	default:
		return fmt.Errorf("model: unknown language %q", s)
	}
	return nil
}

func (o Optimize) MarshalJSON() ([]byte, error) {
	switch o {
	case OptOff:
		return json.Marshal("off")
	case OptSize:
		return json.Marshal("size")
	case OptSpeed:
		return json.Marshal("speed")
	case OptFull:
		return json.Marshal("full")
	default:
		return json.Marshal("off")
	}
}

func (o *Optimize) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "", "off":
		*o = OptOff
	case "size":
		*o = OptSize
	case "speed":
		*o = OptSpeed
	case "full":
		*o = OptFull
	default:
		return fmt.Errorf("model: unknown optimize level %q", s)
	}
	return nil
}

func (w Warnings) MarshalJSON() ([]byte, error) {
	switch w {
	case WarnDefault:
		return json.Marshal("default")
	case WarnExtra:
		return json.Marshal("extra")
	case WarnAll:
		return json.Marshal("all")
	case WarnAsError:
		return json.Marshal("as-error")
	default:
		return json.Marshal("default")
	}
}

func (w *Warnings) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "", "default":
		*w = WarnDefault
	case "extra":
		*w = WarnExtra
	case "all":
		*w = WarnAll
	case "as-error":
		*w = WarnAsError
	default:
		return fmt.Errorf("model: unknown warning level %q", s)
	}
	return nil
}

func (f Family) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

func (f *Family) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "clang":
		*f = FamilyClang
	case "gcc":
		*f = FamilyGCC
	case "msvc":
		*f = FamilyMSVC
	case "android-ndk":
		*f = FamilyAndroidNDK
	case "emscripten":
		*f = FamilyEmscripten
	case "apple-clang":
		*f = FamilyAppleClang
	case "zig":
		*f = FamilyZig
	default:
		return fmt.Errorf("model: unknown toolchain family %q", s)
	}
	return nil
}
