package grib

// builtins lists the built-in kinds with their parents, parents first.
var builtins = []struct {
	kind     Kind
	behavior *Behavior
	parent   Kind
}{
	{KindGen, &genBehavior, ""},
	{KindLong, &longBehavior, KindGen},
	{KindDouble, &doubleBehavior, KindGen},
	{KindUnsigned, &unsignedBehavior, KindLong},
	{KindSigned, &signedBehavior, KindLong},
	{KindIEEEFloat, &ieeeFloatBehavior, KindDouble},
	{KindASCII, &asciiBehavior, KindGen},
	{KindBytes, &bytesBehavior, KindGen},
	{KindConstant, &constantBehavior, KindLong},
	{KindOctetNumber, &octetNumberBehavior, KindLong},
	{KindBit, &bitBehavior, KindLong},
	{KindScaledValue, &scaledValueBehavior, KindDouble},
	{KindUnsignedArray, &unsignedArrayBehavior, KindLong},
	{KindBits, &bitsBehavior, KindLong},
	{KindSection, &sectionBehavior, KindGen},
	{KindRepeat, &repeatBehavior, KindSection},
	{KindSectionLength, &sectionLengthBehavior, KindUnsigned},
	{KindTotalLength, &totalLengthBehavior, KindUnsigned},
	{KindCompressed, &compressedBehavior, KindBytes},
	{KindDigest, &digestBehavior, KindGen},
}

// registerBuiltins installs every built-in kind into r. Register takes behaviors by value,
// so the package-level tables stay pristine.
func registerBuiltins(r *Registry) error {
	for _, b := range builtins {
		if err := r.Register(b.kind, *b.behavior, b.parent); err != nil {
			return err
		}
	}
	return nil
}
