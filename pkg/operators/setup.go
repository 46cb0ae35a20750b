package operators

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/eta"
	"github.com/travigo/etastation/pkg/fetch"
	"github.com/travigo/etastation/pkg/metadata"
)

type Settings struct {
	DataDir    string
	Client     *fetch.Client
	Logger     zerolog.Logger
	Location   *time.Location
	Now        func() time.Time
	Thresholds map[ctdf.OperatorID]int
}

func (s Settings) storeOptions(operator ctdf.OperatorID) metadata.Options {
	return metadata.Options{
		DataDir:       s.DataDir,
		Client:        s.Client,
		Logger:        s.Logger,
		ThresholdDays: s.Thresholds[operator],
		Location:      s.Location,
		Now:           s.Now,
	}
}

func (s Settings) etaOptions() eta.Options {
	return eta.Options{
		Client:   s.Client,
		Logger:   s.Logger,
		Location: s.Location,
		Now:      s.Now,
	}
}

// Setup builds a registry holding every supported operator
func Setup(settings Settings) (*Registry, error) {
	registry := NewRegistry(settings.Logger)

	kmbStore := metadata.NewKMBStore(settings.storeOptions(ctdf.OperatorKMB))
	lightRailStore := metadata.NewLightRailStore(settings.storeOptions(ctdf.OperatorMTRLRT))
	mtrBusStore := metadata.NewMTRBusStore(settings.storeOptions(ctdf.OperatorMTRBus))
	mtrTrainStore := metadata.NewMTRTrainStore(settings.storeOptions(ctdf.OperatorMTRTrain))

	operators := []*Operator{
		{
			Operator: ctdf.Operator{
				Identifier:    ctdf.OperatorKMB,
				PrimaryName:   "Kowloon Motor Bus",
				TransportType: ctdf.TransportTypeBus,
				Website:       "https://www.kmb.hk",
			},
			Store:      kmbStore,
			Normalizer: eta.NewKMB(settings.etaOptions()),
		},
		{
			Operator: ctdf.Operator{
				Identifier:    ctdf.OperatorMTRLRT,
				PrimaryName:   "MTR Light Rail",
				TransportType: ctdf.TransportTypeLightRail,
				Website:       "https://www.mtr.com.hk",
			},
			Store:      lightRailStore,
			Normalizer: eta.NewLightRail(settings.etaOptions(), lightRailStore),
		},
		{
			Operator: ctdf.Operator{
				Identifier:    ctdf.OperatorMTRBus,
				PrimaryName:   "MTR Bus",
				TransportType: ctdf.TransportTypeBus,
				Website:       "https://www.mtr.com.hk",
			},
			Store:      mtrBusStore,
			Normalizer: eta.NewMTRBus(settings.etaOptions(), mtrBusStore),
		},
		{
			Operator: ctdf.Operator{
				Identifier:    ctdf.OperatorMTRTrain,
				PrimaryName:   "MTR",
				TransportType: ctdf.TransportTypeTrain,
				Website:       "https://www.mtr.com.hk",
			},
			Store:      mtrTrainStore,
			Normalizer: eta.NewMTRTrain(settings.etaOptions(), mtrTrainStore),
		},
	}

	for _, operator := range operators {
		if err := registry.Register(operator); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
