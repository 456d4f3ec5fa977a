package detector

import (
	"fmt"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

// CheckArchivedChannels detects a spike of newly archived channels between
// the previous and current snapshots. A no-op without a previous snapshot.
func (d *Detector) CheckArchivedChannels(channels, previous []model.Channel) ([]model.Alert, error) {
	// An empty previous channel list means no prior data; skip the check.
	if len(previous) == 0 {
		return nil, nil
	}
	now := d.now()

	prevArchived, err := indexArchivedChannels(previous)
	if err != nil {
		return nil, err
	}
	currArchived, err := indexArchivedChannels(channels)
	if err != nil {
		return nil, err
	}

	newlyArchived := make([]string, 0, len(currArchived))
	for id := range currArchived {
		if _, ok := prevArchived[id]; !ok {
			newlyArchived = append(newlyArchived, id)
		}
	}
	if len(newlyArchived) < d.thresholds.ChannelArchiveSpike {
		return nil, nil
	}
	sort.Strings(newlyArchived)

	sampleIDs := newlyArchived
	if len(sampleIDs) > maxSampleEntries {
		sampleIDs = sampleIDs[:maxSampleEntries]
	}
	samples := make([]model.ChannelSample, 0, len(sampleIDs))
	for _, id := range sampleIDs {
		samples = append(samples, model.ChannelSample{
			ID:   id,
			Name: currArchived[id].Name,
		})
	}

	alert := model.NewAlertAt(now, types.AlertTypeChannelManagement, types.SeverityWarning,
		"Channel Archival Spike",
		fmt.Sprintf("%d channels archived recently", len(newlyArchived)),
		model.ArchiveSpikeDetails{
			ArchivedCount: len(newlyArchived),
			Channels:      samples,
		})
	return []model.Alert{alert}, nil
}

// CheckExternalSharing reports when the count of non-archived externally
// shared channels strictly exceeds the configured limit. Informational only.
func (d *Detector) CheckExternalSharing(channels []model.Channel) ([]model.Alert, error) {
	now := d.now()

	var external []model.ChannelSample
	for _, c := range channels {
		if c.IsExtShared && !c.IsArchived {
			external = append(external, model.ChannelSample{ID: c.ID, Name: c.Name})
		}
	}
	if len(external) <= d.thresholds.ExternalSharingLimit {
		return nil, nil
	}

	samples := external
	if len(samples) > maxSampleEntries {
		samples = samples[:maxSampleEntries]
	}

	alert := model.NewAlertAt(now, types.AlertTypeSecurity, types.SeverityInfo,
		"Multiple External Shared Channels",
		fmt.Sprintf("%d channels are shared with external workspaces", len(external)),
		model.ExternalSharingDetails{
			ExternalCount: len(external),
			Threshold:     d.thresholds.ExternalSharingLimit,
			Channels:      samples,
		})
	return []model.Alert{alert}, nil
}

func indexArchivedChannels(channels []model.Channel) (map[string]model.Channel, error) {
	archived := make(map[string]model.Channel)
	for i, c := range channels {
		if !c.IsArchived {
			continue
		}
		if c.ID == "" {
			return nil, goerr.Wrap(ErrMalformedRecord, "channel record has no id", goerr.V("index", i))
		}
		archived[c.ID] = c
	}
	return archived, nil
}
