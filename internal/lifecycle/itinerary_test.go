package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/logistics/services/odv/internal/model"
)

var base = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := base.Add(offset)
	return &t
}

// completedPunto builds a point with arrival and departure at the given
// offsets from the base time
func completedPunto(accion model.Accion, llegada, salida time.Duration) model.Punto {
	return model.Punto{
		Accion:  accion,
		Llegada: at(llegada),
		Salida:  at(salida),
	}
}

func TestValidateSequentialTiming(t *testing.T) {
	tests := []struct {
		name   string
		puntos []model.Punto
		want   bool
	}{
		{
			name: "ordered points pass",
			puntos: []model.Punto{
				completedPunto(model.AccionRetiroVacio, 1*time.Hour, 2*time.Hour),
				completedPunto(model.AccionVaciado, 3*time.Hour, 4*time.Hour),
			},
			want: true,
		},
		{
			name: "arrival before previous departure fails",
			puntos: []model.Punto{
				completedPunto(model.AccionRetiroVacio, 1*time.Hour, 3*time.Hour),
				completedPunto(model.AccionVaciado, 2*time.Hour, 4*time.Hour),
			},
			want: false,
		},
		{
			name: "departure before own arrival fails",
			puntos: []model.Punto{
				completedPunto(model.AccionRetiroVacio, 2*time.Hour, 1*time.Hour),
			},
			want: false,
		},
		{
			name: "first arrival before the requested date fails",
			puntos: []model.Punto{
				completedPunto(model.AccionRetiroVacio, -1*time.Hour, 1*time.Hour),
			},
			want: false,
		},
		{
			name: "incomplete point in the middle carries the floor over",
			puntos: []model.Punto{
				completedPunto(model.AccionRetiroVacio, 1*time.Hour, 2*time.Hour),
				{Accion: model.AccionPorteo},
				completedPunto(model.AccionVaciado, 3*time.Hour, 4*time.Hour),
			},
			want: true,
		},
		{
			name: "completed point after a gap still checked against the floor",
			puntos: []model.Punto{
				completedPunto(model.AccionRetiroVacio, 2*time.Hour, 3*time.Hour),
				{Accion: model.AccionPorteo},
				completedPunto(model.AccionVaciado, 1*time.Hour, 4*time.Hour),
			},
			want: false,
		},
		{
			name:   "empty itinerary passes",
			puntos: nil,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ValidateSequentialTiming(tt.puntos, base))
		})
	}
}

func TestIsLate(t *testing.T) {
	eta := at(0)

	t.Run("arrival within threshold is not late", func(t *testing.T) {
		p := model.Punto{ETA: eta, Llegada: at(15 * time.Minute)}
		require.False(t, IsLate(p))
	})

	t.Run("arrival past threshold is late", func(t *testing.T) {
		p := model.Punto{ETA: eta, Llegada: at(16 * time.Minute)}
		require.True(t, IsLate(p))
	})

	t.Run("missing eta never late", func(t *testing.T) {
		p := model.Punto{Llegada: at(5 * time.Hour)}
		require.False(t, IsLate(p))
	})

	t.Run("missing arrival never late", func(t *testing.T) {
		p := model.Punto{ETA: eta}
		require.False(t, IsLate(p))
	})
}

func TestComputePendingReturn(t *testing.T) {
	t.Run("incomplete return point with all work done", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionRetiroVacio, 1*time.Hour, 2*time.Hour),
			completedPunto(model.AccionVaciado, 3*time.Hour, 4*time.Hour),
			{Accion: model.AccionEntregaVacio},
		}
		require.True(t, ComputePendingReturn(puntos))
	})

	t.Run("incomplete non-return point suppresses the flag", func(t *testing.T) {
		puntos := []model.Punto{
			{Accion: model.AccionRetiroVacio},
			{Accion: model.AccionEntregaVacio},
		}
		require.False(t, ComputePendingReturn(puntos))
	})

	t.Run("all points complete", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionRetiroVacio, 1*time.Hour, 2*time.Hour),
			completedPunto(model.AccionEntregaVacio, 3*time.Hour, 4*time.Hour),
		}
		require.False(t, ComputePendingReturn(puntos))
	})

	t.Run("no return points in the itinerary", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionRetiroCarga, 1*time.Hour, 2*time.Hour),
			completedPunto(model.AccionVaciado, 3*time.Hour, 4*time.Hour),
		}
		require.False(t, ComputePendingReturn(puntos))
	})

	t.Run("both return actions count", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionRetiroCargado, 1*time.Hour, 2*time.Hour),
			{Accion: model.AccionEntregaCargado},
		}
		require.True(t, ComputePendingReturn(puntos))
	})
}

func TestCanAdvanceToReview(t *testing.T) {
	t.Run("valid itinerary", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionRetiroVacio, 1*time.Hour, 2*time.Hour),
			completedPunto(model.AccionVaciado, 3*time.Hour, 4*time.Hour),
		}
		require.NoError(t, CanAdvanceToReview(puntos, base))
	})

	t.Run("incomplete non-return point reported with its index", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionRetiroVacio, 1*time.Hour, 2*time.Hour),
			{Accion: model.AccionVaciado, Llegada: at(3 * time.Hour)},
		}
		err := CanAdvanceToReview(puntos, base)
		require.Error(t, err)
		var lcErr *Error
		require.ErrorAs(t, err, &lcErr)
		require.Equal(t, CodeIncompletePoints, lcErr.Code)
		require.Equal(t, []int{1}, lcErr.Indices)
	})

	t.Run("incomplete return point does not block", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionVaciado, 1*time.Hour, 2*time.Hour),
			{Accion: model.AccionEntregaVacio},
		}
		require.NoError(t, CanAdvanceToReview(puntos, base))
	})

	t.Run("no completed delivery action", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionRetiroVacio, 1*time.Hour, 2*time.Hour),
			completedPunto(model.AccionPorteo, 3*time.Hour, 4*time.Hour),
		}
		err := CanAdvanceToReview(puntos, base)
		require.Error(t, err)
		var lcErr *Error
		require.ErrorAs(t, err, &lcErr)
		require.Equal(t, CodeNoCargoDelivered, lcErr.Code)
	})

	t.Run("completed drop-loaded counts as delivery", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionEntregaCargado, 1*time.Hour, 2*time.Hour),
		}
		require.NoError(t, CanAdvanceToReview(puntos, base))
	})

	t.Run("timing violation reported before late reasons", func(t *testing.T) {
		puntos := []model.Punto{
			completedPunto(model.AccionRetiroVacio, 2*time.Hour, 3*time.Hour),
			completedPunto(model.AccionVaciado, 1*time.Hour, 4*time.Hour),
		}
		err := CanAdvanceToReview(puntos, base)
		require.Error(t, err)
		var lcErr *Error
		require.ErrorAs(t, err, &lcErr)
		require.Equal(t, CodeTimingViolation, lcErr.Code)
		require.Equal(t, []int{1}, lcErr.Indices)
	})

	t.Run("late arrival without reason", func(t *testing.T) {
		late := completedPunto(model.AccionVaciado, 2*time.Hour, 3*time.Hour)
		late.ETA = at(1 * time.Hour)
		err := CanAdvanceToReview([]model.Punto{late}, base)
		require.Error(t, err)
		var lcErr *Error
		require.ErrorAs(t, err, &lcErr)
		require.Equal(t, CodeMissingLateReason, lcErr.Code)
		require.Equal(t, []int{0}, lcErr.Indices)
	})

	t.Run("late arrival with reason passes", func(t *testing.T) {
		late := completedPunto(model.AccionVaciado, 2*time.Hour, 3*time.Hour)
		late.ETA = at(1 * time.Hour)
		late.RazonDeTardia = "Congestión en puerto"
		require.NoError(t, CanAdvanceToReview([]model.Punto{late}, base))
	})

	t.Run("arrival exactly at the threshold needs no reason", func(t *testing.T) {
		p := completedPunto(model.AccionVaciado, 75*time.Minute, 2*time.Hour)
		p.ETA = at(1 * time.Hour)
		require.NoError(t, CanAdvanceToReview([]model.Punto{p}, base))
	})
}
