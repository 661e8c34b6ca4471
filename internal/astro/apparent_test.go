package astro

import (
	"math"
	"testing"
)

func TestApparentPlace(t *testing.T) {
	tests := []struct {
		name    string
		eq      EquatorialPosition
		jd      float64
		wantRA  float64
		wantDec float64
		tol     float64
	}{
		{
			// Only nutation applies at the reference epoch.
			name:    "at J2000",
			eq:      EquatorialPosition{RAdeg: 120, DecDeg: 10},
			jd:      2451545.0,
			wantRA:  120,
			wantDec: 10,
			tol:     0.01,
		},
		{
			// theta Persei, Meeus examples 21.b and 23.a without proper
			// motion and aberration.
			name:    "theta Persei 2028",
			eq:      EquatorialPosition{RAdeg: 41.0540613, DecDeg: 49.2277489},
			jd:      2462088.69,
			wantRA:  41.5516,
			wantDec: 49.3502,
			tol:     0.005,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApparentPlace(tt.eq, tt.jd)
			if math.Abs(got.RAdeg-tt.wantRA) > tt.tol {
				t.Errorf("RAdeg = %.5f, want %.5f", got.RAdeg, tt.wantRA)
			}
			if math.Abs(got.DecDeg-tt.wantDec) > tt.tol {
				t.Errorf("DecDeg = %.5f, want %.5f", got.DecDeg, tt.wantDec)
			}
		})
	}
}

func TestToEclipticOfDate(t *testing.T) {
	p := RectangularPosition{Vec3: Vec3{X: 0.5, Y: 1.5, Z: 0.1}, Origin: Heliocentric, Basis: EclipticJ2000}

	// General precession in longitude is about 50.29 arcseconds per year.
	jd := 2451545.0 + 25*365.25
	got := ToEclipticOfDate(p, jd)

	if got.Basis != EclipticOfDate || got.Origin != Heliocentric {
		t.Errorf("tags = (%v, %v)", got.Origin, got.Basis)
	}
	if math.Abs(got.Norm()-p.Norm()) > 1e-12 {
		t.Errorf("Norm() = %v, want %v", got.Norm(), p.Norm())
	}

	shift := EclipticLongitude(got.Vec3) - EclipticLongitude(p.Vec3)
	if want := 25 * 50.29 / 3600; math.Abs(shift-want) > 0.005 {
		t.Errorf("longitude shift = %.4f°, want %.4f°", shift, want)
	}
	if d := math.Abs(EclipticLatitude(got.Vec3) - EclipticLatitude(p.Vec3)); d > 0.01 {
		t.Errorf("latitude changed by %v°", d)
	}

	if again := ToEclipticOfDate(got, jd); again != got {
		t.Error("ToEclipticOfDate is not idempotent")
	}
}
