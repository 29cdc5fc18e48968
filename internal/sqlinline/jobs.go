package sqlinline

const QHealthPing = `--sql f0482a97-6fcd-4803-803a-fa3aa4bbddba
select 1;
`

const QInsertBatchJob = `--sql 8905e314-5140-4c01-9757-a62429df0ca8
insert into blog_jobs (id, user_id, author_id, payload, priority, status, interval_ms, run_at)
values ($1, $2, $3, $4::jsonb, $5, 'waiting', 0, now())
returning id, user_id, author_id, payload, priority, status, attempts, progress, interval_ms, run_at, failed_reason, created_at, updated_at;
`

// Fixed-id insert for the per-user recurring schedule. A live row with the
// same id wins the conflict, so zero returned rows means "already running".
const QInsertContinuousJob = `--sql 68016019-2a86-4cd0-8951-3dac2d2ef086
insert into blog_jobs (id, user_id, author_id, payload, priority, status, interval_ms, run_at)
values ($1, $2, $3, $4::jsonb, $5, 'waiting', $6, now())
on conflict (id) do nothing
returning id, user_id, author_id, payload, priority, status, attempts, progress, interval_ms, run_at, failed_reason, created_at, updated_at;
`

const QClaimJob = `--sql 61a6977d-aea0-4e33-bb88-c0c042dbfea1
with next_job as (
    select id
    from blog_jobs
    where status in ('waiting', 'delayed')
      and run_at <= now()
    order by priority asc, run_at asc
    for update skip locked
    limit 1
),
claimed as (
    update blog_jobs
    set status = 'active', attempts = attempts + 1, updated_at = now()
    where id in (select id from next_job)
    returning id, user_id, author_id, payload, priority, status, attempts, progress, interval_ms, run_at, failed_reason, created_at, updated_at
)
select * from claimed;
`

const QUpdateJobProgress = `--sql 9a12cbe8-9d20-420a-a3d7-19e04c73287e
update blog_jobs
set progress = $2, updated_at = now()
where id = $1;
`

const QCompleteJob = `--sql bf1cf873-74af-498c-af45-f92d28a57901
update blog_jobs
set status = 'completed', progress = 100, failed_reason = '', updated_at = now()
where id = $1;
`

// Re-arm a continuous schedule for its next occurrence. Attempts reset so
// each occurrence gets a fresh retry budget.
const QRescheduleContinuous = `--sql d923e4f3-c5cb-40c7-93a1-0e9f41d5030a
update blog_jobs
set status = 'delayed',
    attempts = 0,
    progress = 0,
    failed_reason = $2,
    run_at = now() + ($3::bigint * interval '1 millisecond'),
    updated_at = now()
where id = $1;
`

const QRetryJob = `--sql e41d9f2e-4df0-4e65-a4c5-bd4247e36c84
update blog_jobs
set status = 'waiting',
    failed_reason = $2,
    run_at = now() + ($3::bigint * interval '1 millisecond'),
    updated_at = now()
where id = $1;
`

const QFailJob = `--sql 11c9b310-c5ac-48b0-8c31-a0094ac3d1fe
update blog_jobs
set status = 'failed', failed_reason = $2, updated_at = now()
where id = $1;
`

const QDeleteJob = `--sql 699d2c75-5fde-4c6c-a152-ae18be2776d6
delete from blog_jobs
where id = $1;
`

// Removes the recurring schedule only; a claimed (active) occurrence keeps
// running to completion and its final update will simply match zero rows.
const QDeleteContinuousSchedule = `--sql edb96fc7-f9fe-47e6-aa49-8e1892917574
delete from blog_jobs
where id = $1 and interval_ms > 0;
`

const QListUserJobs = `--sql c15857b2-9c0a-40bb-9ee1-40ebd8b32e57
select id, user_id, author_id, payload, priority, status, attempts, progress, interval_ms, run_at, failed_reason, created_at, updated_at
from blog_jobs
where user_id = $1
order by created_at desc;
`

const QCountLiveUserJobs = `--sql bd792c50-6e4b-4db9-b80a-0eaf11d99f60
select count(*)
from blog_jobs
where user_id = $1 and status in ('waiting', 'active', 'delayed');
`

const QQueueMetrics = `--sql 1cc37deb-396d-4c93-9938-8d6becd81820
select status, count(*)
from blog_jobs
group by status;
`

// Bounded retention for finished one-shot runs; failed rows and recurring
// schedules are never trimmed.
const QTrimCompletedJobs = `--sql 469d3206-d8a6-4a64-bc9b-e97f21b532af
delete from blog_jobs
where user_id = $1
  and status = 'completed'
  and interval_ms = 0
  and id not in (
    select id from blog_jobs
    where user_id = $1 and status = 'completed' and interval_ms = 0
    order by updated_at desc
    limit $2
  );
`
