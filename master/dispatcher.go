// Copyright 2024 The StratoFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package master

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"

	"github.com/stratofs/stratofs/proto"
	"github.com/stratofs/stratofs/util"
	"github.com/stratofs/stratofs/util/log"
)

const (
	dispatchWorkerCount = 2
	recentJobCacheSize  = 1024
)

// jobDispatcher is the production ReplicationHandler. Replicate and Evict
// enqueue a correction job and return its handle immediately; delivery to
// the job service happens on background workers under a rate limit. A
// delivery failure is logged and dropped, never surfaced to the checker.
type jobDispatcher struct {
	clusterID      string
	jobServiceAddr string
	queue          chan *proto.CorrectionJob
	limiter        *rate.Limiter
	recentJobs     *lru.Cache

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newJobDispatcher(clusterID, jobServiceAddr string, ratePerSec, queueSize int64) *jobDispatcher {
	cache, _ := lru.New(recentJobCacheSize)
	ctx, cancel := context.WithCancel(context.Background())
	d := &jobDispatcher{
		clusterID:      clusterID,
		jobServiceAddr: jobServiceAddr,
		queue:          make(chan *proto.CorrectionJob, queueSize),
		limiter:        rate.NewLimiter(rate.Limit(ratePerSec), int(ratePerSec)),
		recentJobs:     cache,
		ctx:            ctx,
		cancel:         cancel,
	}
	for i := 0; i < dispatchWorkerCount; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// Replicate implements ReplicationHandler.
func (d *jobDispatcher) Replicate(path string, blockID uint64, numReplicas int) (string, error) {
	return d.submit(proto.OpReplicateBlock, path, blockID, numReplicas)
}

// Evict implements ReplicationHandler.
func (d *jobDispatcher) Evict(path string, blockID uint64, numReplicas int) (string, error) {
	return d.submit(proto.OpEvictBlock, path, blockID, numReplicas)
}

func (d *jobDispatcher) submit(op proto.CorrectionOp, path string, blockID uint64, numReplicas int) (string, error) {
	job := &proto.CorrectionJob{
		JobID:       uuid.New().String(),
		Op:          op,
		Path:        path,
		BlockID:     blockID,
		NumReplicas: numReplicas,
		CreateTime:  time.Now().Unix(),
	}
	select {
	case <-d.ctx.Done():
		return "", proto.ErrDispatcherStopped
	case d.queue <- job:
		return job.JobID, nil
	default:
		return "", fmt.Errorf("dispatch queue is full, job for block(%v) dropped", blockID)
	}
}

func (d *jobDispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case job := <-d.queue:
			if err := d.limiter.Wait(d.ctx); err != nil {
				return
			}
			d.deliver(job)
		}
	}
}

func (d *jobDispatcher) deliver(job *proto.CorrectionJob) {
	d.recentJobs.Add(job.JobID, job)
	log.LogInfof("action[deliver] job[%v] %v block[%v] of file[%v] by %v",
		job.JobID, job.Op, job.BlockID, job.Path, job.NumReplicas)
	if d.jobServiceAddr == "" {
		return
	}
	data, err := json.Marshal(job)
	if err != nil {
		log.LogErrorf("action[deliver] marshal job[%v] failed: %v", job.JobID, err)
		return
	}
	url := fmt.Sprintf("http://%v%v", d.jobServiceAddr, proto.JobServiceDispatch)
	if _, err = util.PostToNode(data, url); err != nil {
		Warn(d.clusterID, fmt.Sprintf("action[%v] post job[%v] to %v failed: %v",
			dispatchCorrectionErr, job.JobID, url, err))
	}
}

// RecentJobs lists the most recently delivered jobs, newest last.
func (d *jobDispatcher) RecentJobs() []*proto.CorrectionJob {
	keys := d.recentJobs.Keys()
	jobs := make([]*proto.CorrectionJob, 0, len(keys))
	for _, key := range keys {
		if value, ok := d.recentJobs.Get(key); ok {
			jobs = append(jobs, value.(*proto.CorrectionJob))
		}
	}
	return jobs
}

func (d *jobDispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.cancel()
		d.wg.Wait()
	})
}
